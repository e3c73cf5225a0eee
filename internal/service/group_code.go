package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

const (
	// codeAlphabet omits 0, O, 1 and I. Its length divides 256, so byte-modulo
	// selection is unbiased.
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength      = 5
	maxCodeAttempts = 10
)

// generateGroupCode draws a random join code from codeAlphabet.
func generateGroupCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// createWithUniqueCode inserts a new group, drawing a fresh code whenever the
// store reports a collision. Uniqueness is enforced by the store's index.
func (s *GroupService) createWithUniqueCode(ctx context.Context, name string, owner *models.User) (*models.Group, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		group := models.NewGroup(name, code, owner)
		err = s.store.CreateGroup(ctx, group)
		if errors.Is(err, storage.ErrDuplicateCode) {
			slog.Debug("Group code collision", "code", code, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return group, nil
	}
	return nil, errCodeExhausted
}
