package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	groupserrors "evshare/internal/groups/errors"
	"evshare/pkg/config"
	mongotx "evshare/pkg/db/mongo"
	"evshare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Ownership_groups"
)

type mongoGroupRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.OwnershipGroup) error
	FindByID(ctx context.Context, id string) (*model.OwnershipGroup, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.OwnershipGroup, error)
	FindByMember(ctx context.Context, userID string, limit int, offset int64) ([]*model.OwnershipGroup, error)
	Count(ctx context.Context) (int64, error)
	CountByMember(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, id string, group *model.OwnershipGroup) error
	UpdateMembers(ctx context.Context, id string, members []model.GroupMember) error
	AdjustFund(ctx context.Context, id string, deltaCents int64) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoGroupRepository(cfg *config.Config) GroupRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGroupRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoGroupRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoGroupRepository) Create(ctx context.Context, group *model.OwnershipGroup) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	group.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return fmt.Errorf("failed to create ownership group: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		group.ID = oid.Hex()
	}
	return nil
}

func (r *mongoGroupRepository) FindByID(ctx context.Context, id string) (*model.OwnershipGroup, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, id)
	}

	var group model.OwnershipGroup
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, groupserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ownership group: %w", err)
	}

	return &group, nil
}

func (r *mongoGroupRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.OwnershipGroup, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoGroupRepository) FindByMember(ctx context.Context, userID string, limit int, offset int64) ([]*model.OwnershipGroup, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"members.user_id": userID}, limit, offset)
}

func (r *mongoGroupRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.OwnershipGroup, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ownership groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*model.OwnershipGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode ownership groups: %w", err)
	}

	return groups, nil
}

func (r *mongoGroupRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count ownership groups: %w", err)
	}
	return count, nil
}

func (r *mongoGroupRepository) CountByMember(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"members.user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count ownership groups by member: %w", err)
	}
	return count, nil
}

func (r *mongoGroupRepository) Update(ctx context.Context, id string, group *model.OwnershipGroup) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      group.Name,
			"time_zone": group.TimeZone,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update ownership group: %w", err)
	}
	if result.MatchedCount == 0 {
		return groupserrors.ErrNotFound
	}
	return nil
}

func (r *mongoGroupRepository) UpdateMembers(ctx context.Context, id string, members []model.GroupMember) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"members": members}})
	if err != nil {
		return fmt.Errorf("failed to update group members: %w", err)
	}
	if result.MatchedCount == 0 {
		return groupserrors.ErrNotFound
	}
	return nil
}

func (r *mongoGroupRepository) AdjustFund(ctx context.Context, id string, deltaCents int64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"fund_balance_cents": deltaCents}})
	if err != nil {
		return fmt.Errorf("failed to adjust group fund: %w", err)
	}
	if result.MatchedCount == 0 {
		return groupserrors.ErrNotFound
	}
	return nil
}

func (r *mongoGroupRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete ownership group: %w", err)
	}
	if result.DeletedCount == 0 {
		return groupserrors.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the membership lookup index and enforces one group
// per vehicle.
func (r *mongoGroupRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "members.user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "vehicle_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create group indexes: %w", err)
	}
	return nil
}

func (r *mongoGroupRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
