package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/metrics"
	"github.com/lunchpicker/lunchpicker/internal/middleware"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
	"github.com/lunchpicker/lunchpicker/internal/validation"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// collidingStore rejects the first collisions group inserts as duplicate codes.
type collidingStore struct {
	storage.Store
	collisions int
	attempts   int
	created    *models.Group
	user       *models.User
}

func (s *collidingStore) CreateGroup(_ context.Context, g *models.Group) error {
	s.attempts++
	if s.attempts <= s.collisions {
		return storage.ErrDuplicateCode
	}
	s.created = g
	return nil
}

func (s *collidingStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, storage.ErrNotFound
}

func newCollidingService(collisions int) (*GroupService, *collidingStore, *[]string) {
	store := &collidingStore{
		collisions: collisions,
		user:       &models.User{ID: "u1", DisplayName: "Alice"},
	}
	svc := NewGroupService(store, validation.New(), metrics.New())

	var drawn []string
	svc.newCode = func() (string, error) {
		code := fmt.Sprintf("CODE%d", len(drawn))
		drawn = append(drawn, code)
		return code, nil
	}
	return svc, store, &drawn
}

func TestGenerateGroupCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateGroupCode()
		if err != nil {
			t.Fatalf("generateGroupCode failed: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("code length: expected %d, got %d", codeLength, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %s contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestCreateWithUniqueCode(t *testing.T) {
	owner := &models.User{ID: "u1", DisplayName: "Alice"}

	tests := []struct {
		name       string
		collisions int
		wantErr    bool
		wantDraws  int
	}{
		{name: "first draw succeeds", collisions: 0, wantDraws: 1},
		{name: "retries past collisions", collisions: 4, wantDraws: 5},
		{name: "last allowed draw succeeds", collisions: maxCodeAttempts - 1, wantDraws: maxCodeAttempts},
		{name: "gives up after the attempt budget", collisions: maxCodeAttempts, wantErr: true, wantDraws: maxCodeAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, drawn := newCollidingService(tt.collisions)

			group, err := svc.createWithUniqueCode(context.Background(), "Lunch Crew", owner)
			if tt.wantErr {
				if !errors.Is(err, errCodeExhausted) {
					t.Fatalf("expected errCodeExhausted, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("createWithUniqueCode failed: %v", err)
				}
				want := (*drawn)[len(*drawn)-1]
				if group.Code != want || store.created.Code != want {
					t.Errorf("code: expected %s, got %s", want, group.Code)
				}
			}

			if len(*drawn) != tt.wantDraws {
				t.Errorf("draws: expected %d, got %d", tt.wantDraws, len(*drawn))
			}
		})
	}
}

func TestCreateGroup_CodeExhaustedIsInternal(t *testing.T) {
	svc, _, _ := newCollidingService(maxCodeAttempts)

	ctx := middleware.WithUser(context.Background(), "u1", "")
	_, err := svc.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Lunch Crew"}))
	assertCode(t, err, connect.CodeInternal)

	if strings.Contains(err.Error(), "unique group code") {
		t.Errorf("internal detail leaked to the caller: %v", err)
	}
}
