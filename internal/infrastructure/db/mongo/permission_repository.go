package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// PermissionRepository stores one document per (role, action) pair.
type PermissionRepository struct {
	col *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{col: db.Collection(collectionPermissions)}
}

func (r *PermissionRepository) List(ctx context.Context) ([]domain.PermissionEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "action", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	entries := make([]domain.PermissionEntry, 0)
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return entries, nil
}

func (r *PermissionRepository) Upsert(ctx context.Context, e domain.PermissionEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"role": string(e.Role), "action": string(e.Action)},
		bson.M{"$set": bson.M{"allowed": e.Allowed, "updated_at": now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}
	return nil
}

// SeedIfEmpty writes the defaults on first start only, so edits made through
// the settings endpoint survive restarts.
func (r *PermissionRepository) SeedIfEmpty(ctx context.Context, entries []domain.PermissionEntry) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("count permissions: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	for _, e := range entries {
		if err := r.Upsert(ctx, e); err != nil {
			return false, err
		}
	}
	return true, nil
}

// EnsureIndexes creates the unique (role, action) index.
func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}, {Key: "action", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
