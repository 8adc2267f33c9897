package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "evshare/internal/bookings/errors"
	"evshare/pkg/config"
	"evshare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupCollectionName is owned by the groups service; the booking service
// only ever reads from it.
const GroupCollectionName = "Ownership_groups"

// GroupReader is the booking service's read-only view of ownership groups.
// Membership and shares are scoring inputs here; all group mutations go
// through the groups service.
type GroupReader interface {
	FindGroupByID(ctx context.Context, id string) (*model.OwnershipGroup, error)
}

type mongoGroupReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGroupReader(cfg *config.Config) GroupReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGroupReader{
		cfg:        cfg,
		collection: db.Collection(GroupCollectionName),
	}
}

func (r *mongoGroupReader) FindGroupByID(ctx context.Context, id string) (*model.OwnershipGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrGroupNotFound, id)
	}

	var group model.OwnershipGroup
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find ownership group: %w", err)
	}

	return &group, nil
}
