package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

// CreateGroup persists a new group document.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	doc, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO groups (id, code, owner_id, created_at, version, doc) VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Code, group.OwnerID, group.CreatedAt, group.Version, string(doc),
	)
	if isUniqueViolation(err, "groups.code") {
		return storage.ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT doc, version FROM groups WHERE id = ?", id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupByCode retrieves a group by its join code.
func (s *SQLiteStore) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT doc, version FROM groups WHERE code = ?", code)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group code %s: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by code: %w", err)
	}
	return group, nil
}

// ListGroupsByMember returns the groups whose embedded member list contains userID.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.doc, g.version
		FROM groups g
		WHERE EXISTS (
			SELECT 1 FROM json_each(g.doc, '$.members') m
			WHERE json_extract(m.value, '$.userId') = ?
		)
		ORDER BY g.created_at DESC, g.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// UpdateGroup writes the whole document back, guarded by the version column.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	next := *group
	next.Version = group.Version + 1
	next.UpdatedAt = time.Now().Unix()

	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET doc = ?, version = ? WHERE id = ? AND version = ?",
		string(doc), next.Version, group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n == 0 {
		return s.missOrConflict(ctx, group.ID)
	}

	group.Version = next.Version
	group.UpdatedAt = next.UpdatedAt
	return nil
}

// missOrConflict explains why a guarded update matched nothing.
func (s *SQLiteStore) missOrConflict(ctx context.Context, id string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return storage.ErrVersionConflict
}

// DeleteGroup removes a group by ID.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var (
		doc     string
		version int64
	)
	if err := row.Scan(&doc, &version); err != nil {
		return nil, err
	}

	group := &models.Group{}
	if err := json.Unmarshal([]byte(doc), group); err != nil {
		return nil, fmt.Errorf("failed to decode group: %w", err)
	}
	group.Version = version
	group.Normalize()
	return group, nil
}
