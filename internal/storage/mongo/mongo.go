// Package mongo provides a MongoDB-backed implementation of the storage.Store interface.
// Groups are stored as single documents with their members, announcements and
// candidates embedded, so every group write is one atomic document replacement.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Collection names.
const (
	usersCollection      = "users"
	groupsCollection     = "groups"
	exclusionsCollection = "exclusions"
)

// Store implements storage.Store using MongoDB.
type Store struct {
	client     *mongo.Client
	users      *mongo.Collection
	groups     *mongo.Collection
	exclusions *mongo.Collection
}

// New connects to uri, selects database and ensures the required unique indexes.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:     client,
		users:      db.Collection(usersCollection),
		groups:     db.Collection(groupsCollection),
		exclusions: db.Collection(exclusionsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.groups, mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.groups, mongo.IndexModel{
			Keys: bson.D{{Key: "members.userId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{s.exclusions, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "poiType", Value: 1}, {Key: "poiId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// Close disconnects from the server.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	err := s.users.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUserDisplayName changes a user's display name.
func (s *Store) UpdateUserDisplayName(ctx context.Context, id, displayName string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"displayName": displayName, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// CreateGroup inserts a new group document.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	_, err := s.groups.InsertOne(ctx, group)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.findGroup(ctx, bson.M{"_id": id})
}

// GetGroupByCode retrieves a group by its join code.
func (s *Store) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return s.findGroup(ctx, bson.M{"code": code})
}

func (s *Store) findGroup(ctx context.Context, filter bson.M) (*models.Group, error) {
	group := &models.Group{}
	err := s.groups.FindOne(ctx, filter).Decode(group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("group: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Normalize()
	return group, nil
}

// ListGroupsByMember returns the groups whose embedded member list contains userID.
func (s *Store) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	cursor, err := s.groups.Find(ctx,
		bson.M{"members.userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	for _, g := range groups {
		g.Normalize()
	}
	return groups, nil
}

// UpdateGroup replaces the document only if the stored version still matches.
func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) error {
	next := *group
	next.Version = group.Version + 1
	next.UpdatedAt = time.Now().Unix()

	res, err := s.groups.ReplaceOne(ctx, bson.M{"_id": group.ID, "version": group.Version}, &next)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.groups.CountDocuments(ctx, bson.M{"_id": group.ID})
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}
		return storage.ErrVersionConflict
	}

	group.Version = next.Version
	group.UpdatedAt = next.UpdatedAt
	return nil
}

// DeleteGroup removes a group by ID.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// UpsertExclusion inserts or refreshes an exclusion on its composite key.
// Two concurrent first inserts can race on the unique index; the loser retries
// once and then takes the update path.
func (s *Store) UpsertExclusion(ctx context.Context, e *models.Exclusion) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	filter := bson.M{"userId": e.UserID, "poiType": e.POIType, "poiId": e.POIID}
	update := bson.M{
		"$set": bson.M{
			"name":    e.Name,
			"address": e.Address,
			"lat":     e.Lat,
			"lon":     e.Lon,
		},
		"$setOnInsert": bson.M{
			"_id":       uuid.New().String(),
			"createdAt": e.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var stored models.Exclusion
		err = s.exclusions.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		if err != nil {
			break
		}
		*e = stored
		return nil
	}
	return fmt.Errorf("failed to upsert exclusion: %w", err)
}

// ListExclusions retrieves all exclusions of a user, newest first.
func (s *Store) ListExclusions(ctx context.Context, userID string) ([]*models.Exclusion, error) {
	cursor, err := s.exclusions.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}

	var exclusions []*models.Exclusion
	if err := cursor.All(ctx, &exclusions); err != nil {
		return nil, fmt.Errorf("failed to decode exclusions: %w", err)
	}
	return exclusions, nil
}

// DeleteExclusion removes an exclusion by ID if it belongs to userID.
func (s *Store) DeleteExclusion(ctx context.Context, id, userID string) error {
	res, err := s.exclusions.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete exclusion: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("exclusion %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
