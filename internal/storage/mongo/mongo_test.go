package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

// newTestStore connects to MONGO_TEST_URI using a throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "lunchpicker_test_" + uuid.NewString()[:8]
	store, err := New(ctx, uri, dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.groups.Database().Drop(context.Background())
		_ = store.Close()
	})
	return store
}

func TestGroupVersioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{ID: "u1", DisplayName: "Alice"}
	group := models.NewGroup("Lunch Crew", "ABCDE", owner)
	require.NoError(t, store.CreateGroup(ctx, group))

	err := store.CreateGroup(ctx, models.NewGroup("Other", "ABCDE", owner))
	assert.ErrorIs(t, err, storage.ErrDuplicateCode)

	a, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	b, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)

	a.AddMember(&models.User{ID: "u2", DisplayName: "Bob"}, 1)
	require.NoError(t, store.UpdateGroup(ctx, a))
	assert.Equal(t, int64(1), a.Version)

	b.Closed = true
	assert.ErrorIs(t, store.UpdateGroup(ctx, b), storage.ErrVersionConflict)

	groups, err := store.ListGroupsByMember(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Closed)

	require.NoError(t, store.DeleteGroup(ctx, group.ID))
	_, err = store.GetGroup(ctx, group.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExclusionUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Exclusion{UserID: "u1", POIType: "node", POIID: 42, Name: "Noodle House", CreatedAt: 1000}
	require.NoError(t, store.UpsertExclusion(ctx, first))
	require.NotEmpty(t, first.ID)

	again := &models.Exclusion{UserID: "u1", POIType: "node", POIID: 42, Name: "Renamed", CreatedAt: 2000}
	require.NoError(t, store.UpsertExclusion(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, int64(1000), again.CreatedAt)
	assert.Equal(t, "Renamed", again.Name)

	assert.ErrorIs(t, store.DeleteExclusion(ctx, first.ID, "u2"), storage.ErrNotFound)
	require.NoError(t, store.DeleteExclusion(ctx, first.ID, "u1"))

	list, err := store.ListExclusions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
