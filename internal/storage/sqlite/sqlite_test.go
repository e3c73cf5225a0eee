package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "lunchpicker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		if !errors.Is(err, storage.ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byEmail.ID != user.ID || byID.Email != user.Email || byID.PasswordHash != "hash" {
			t.Errorf("lookup mismatch: %+v / %+v", byEmail, byID)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update display name", func(t *testing.T) {
		if err := store.UpdateUserDisplayName(ctx, user.ID, "Ally"); err != nil {
			t.Fatalf("UpdateUserDisplayName failed: %v", err)
		}
		got, _ := store.GetUserByID(ctx, user.ID)
		if got.DisplayName != "Ally" {
			t.Errorf("display name = %q, want Ally", got.DisplayName)
		}
		if err := store.UpdateUserDisplayName(ctx, "nonexistent-id", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{ID: "u1", DisplayName: "Alice"}
	other := &models.User{ID: "u2", DisplayName: "Bob"}

	group := models.NewGroup("Lunch Crew", "ABCDE", owner)
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("duplicate code", func(t *testing.T) {
		err := store.CreateGroup(ctx, models.NewGroup("Other", "ABCDE", other))
		if !errors.Is(err, storage.ErrDuplicateCode) {
			t.Errorf("expected ErrDuplicateCode, got %v", err)
		}
	})

	t.Run("get by id and code", func(t *testing.T) {
		byID, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		byCode, err := store.GetGroupByCode(ctx, "ABCDE")
		if err != nil {
			t.Fatalf("GetGroupByCode failed: %v", err)
		}
		if byID.ID != group.ID || byCode.ID != group.ID {
			t.Error("lookup returned the wrong group")
		}
		if len(byID.Members) != 1 || byID.Members[0].Role != models.RoleLeader {
			t.Errorf("members not round-tripped: %+v", byID.Members)
		}
		if byID.Candidates == nil || byID.Announcements == nil {
			t.Error("collections should decode as empty slices")
		}
	})

	t.Run("missing group", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetGroupByCode(ctx, "ZZZZZ"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update bumps version", func(t *testing.T) {
		g, _ := store.GetGroup(ctx, group.ID)
		before := g.Version
		g.AddMember(other, 1)

		if err := store.UpdateGroup(ctx, g); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		if g.Version != before+1 {
			t.Errorf("version = %d, want %d", g.Version, before+1)
		}

		reloaded, _ := store.GetGroup(ctx, group.ID)
		if reloaded.Version != g.Version || len(reloaded.Members) != 2 {
			t.Errorf("update not persisted: version=%d members=%d", reloaded.Version, len(reloaded.Members))
		}
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		a, _ := store.GetGroup(ctx, group.ID)
		b, _ := store.GetGroup(ctx, group.ID)

		a.Closed = true
		if err := store.UpdateGroup(ctx, a); err != nil {
			t.Fatalf("first UpdateGroup failed: %v", err)
		}

		b.VotingClosed = true
		if err := store.UpdateGroup(ctx, b); !errors.Is(err, storage.ErrVersionConflict) {
			t.Errorf("expected ErrVersionConflict, got %v", err)
		}

		reloaded, _ := store.GetGroup(ctx, group.ID)
		if !reloaded.Closed || reloaded.VotingClosed {
			t.Error("stale write must not be applied")
		}
	})

	t.Run("list by member newest first", func(t *testing.T) {
		second := models.NewGroup("Second", "FGHJK", other)
		second.CreatedAt = group.CreatedAt + 10
		if err := store.CreateGroup(ctx, second); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, "u2")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].ID != second.ID || groups[1].ID != group.ID {
			t.Error("groups not ordered newest first")
		}

		groups, _ = store.ListGroupsByMember(ctx, "u1")
		if len(groups) != 1 {
			t.Errorf("expected 1 group for u1, got %d", len(groups))
		}

		groups, _ = store.ListGroupsByMember(ctx, "stranger")
		if len(groups) != 0 {
			t.Errorf("expected 0 groups for stranger, got %d", len(groups))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}

		g := &models.Group{ID: group.ID}
		if err := store.UpdateGroup(ctx, g); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound updating deleted group, got %v", err)
		}
	})
}

func TestExclusions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lat, lon := 25.03, 121.56
	first := &models.Exclusion{
		UserID: "u1", POIType: "node", POIID: 42,
		Name: "Noodle House", Address: "Main St", Lat: &lat, Lon: &lon,
		CreatedAt: 1000,
	}
	if err := store.UpsertExclusion(ctx, first); err != nil {
		t.Fatalf("UpsertExclusion failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated ID")
	}

	t.Run("re-adding refreshes fields and keeps identity", func(t *testing.T) {
		again := &models.Exclusion{
			UserID: "u1", POIType: "node", POIID: 42,
			Name: "Noodle House 2", CreatedAt: 2000,
		}
		if err := store.UpsertExclusion(ctx, again); err != nil {
			t.Fatalf("UpsertExclusion failed: %v", err)
		}
		if again.ID != first.ID {
			t.Errorf("ID changed: %s -> %s", first.ID, again.ID)
		}
		if again.CreatedAt != 1000 {
			t.Errorf("CreatedAt = %d, want original 1000", again.CreatedAt)
		}

		list, err := store.ListExclusions(ctx, "u1")
		if err != nil {
			t.Fatalf("ListExclusions failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 exclusion, got %d", len(list))
		}
		if list[0].Name != "Noodle House 2" || list[0].Lat != nil {
			t.Errorf("cached fields not refreshed: %+v", list[0])
		}
	})

	t.Run("same venue for another user is separate", func(t *testing.T) {
		e := &models.Exclusion{UserID: "u2", POIType: "node", POIID: 42, Name: "Noodle House"}
		if err := store.UpsertExclusion(ctx, e); err != nil {
			t.Fatalf("UpsertExclusion failed: %v", err)
		}
		if e.ID == first.ID {
			t.Error("exclusions of different users must not share a record")
		}
	})

	t.Run("list newest first with coordinates", func(t *testing.T) {
		e := &models.Exclusion{UserID: "u1", POIType: "way", POIID: 7, Name: "Cafe", Lat: &lat, Lon: &lon, CreatedAt: 3000}
		if err := store.UpsertExclusion(ctx, e); err != nil {
			t.Fatalf("UpsertExclusion failed: %v", err)
		}

		list, _ := store.ListExclusions(ctx, "u1")
		if len(list) != 2 {
			t.Fatalf("expected 2 exclusions, got %d", len(list))
		}
		if list[0].ID != e.ID {
			t.Error("exclusions not ordered newest first")
		}
		if list[0].Lat == nil || *list[0].Lat != lat {
			t.Errorf("coordinates not round-tripped: %+v", list[0])
		}
	})

	t.Run("delete is scoped to owner", func(t *testing.T) {
		if err := store.DeleteExclusion(ctx, first.ID, "u2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting another user's exclusion, got %v", err)
		}
		if err := store.DeleteExclusion(ctx, first.ID, "u1"); err != nil {
			t.Fatalf("DeleteExclusion failed: %v", err)
		}
		if err := store.DeleteExclusion(ctx, first.ID, "u1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}
