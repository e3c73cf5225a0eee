package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

// UpsertExclusion inserts an exclusion or refreshes the cached venue fields of an
// existing one with the same (user, type, id) key.
func (s *SQLiteStore) UpsertExclusion(ctx context.Context, e *models.Exclusion) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO exclusions (id, user_id, poi_type, poi_id, name, address, lat, lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, poi_type, poi_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			lat = excluded.lat,
			lon = excluded.lon
		RETURNING id, created_at`,
		e.ID, e.UserID, e.POIType, e.POIID, e.Name, e.Address, nullable(e.Lat), nullable(e.Lon), e.CreatedAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert exclusion: %w", err)
	}

	return nil
}

// ListExclusions retrieves all exclusions of a user, newest first.
func (s *SQLiteStore) ListExclusions(ctx context.Context, userID string) ([]*models.Exclusion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, poi_type, poi_id, name, address, lat, lon, created_at
		 FROM exclusions WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}
	defer rows.Close()

	var exclusions []*models.Exclusion
	for rows.Next() {
		e := &models.Exclusion{}
		var lat, lon sql.NullFloat64

		if err := rows.Scan(&e.ID, &e.UserID, &e.POIType, &e.POIID, &e.Name, &e.Address,
			&lat, &lon, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}

		if lat.Valid {
			e.Lat = &lat.Float64
		}
		if lon.Valid {
			e.Lon = &lon.Float64
		}

		exclusions = append(exclusions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exclusions: %w", err)
	}

	return exclusions, nil
}

// DeleteExclusion removes an exclusion by ID if it belongs to userID.
func (s *SQLiteStore) DeleteExclusion(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM exclusions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete exclusion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete exclusion: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("exclusion %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// nullable binds an optional coordinate as NULL or its value.
func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
