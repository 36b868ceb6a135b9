package repository

import (
	"context"
	"fmt"

	"safari-booking/internal/data/entity"
	"safari-booking/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type TripRepository interface {
	FindAll(ctx context.Context, isActive *bool) ([]*entity.Trip, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Trip, error)
}

type tripRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewTripRepository(db *database.DB, log *zap.Logger) TripRepository {
	return &tripRepository{
		coll: db.Collection("trips"),
		log:  log,
	}
}

// FindAll lists trips newest first, optionally filtered by active flag
func (tr *tripRepository) FindAll(ctx context.Context, isActive *bool) ([]*entity.Trip, error) {
	filter := bson.M{}
	if isActive != nil {
		filter["is_active"] = *isActive
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := tr.coll.Find(ctx, filter, opts)
	if err != nil {
		tr.log.Error("Failed to find trips", zap.Error(err))
		return nil, fmt.Errorf("find trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*entity.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		tr.log.Error("Failed to decode trips", zap.Error(err))
		return nil, fmt.Errorf("decode trips: %w", err)
	}

	return trips, nil
}

func (tr *tripRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Trip, error) {
	var trip entity.Trip
	err := tr.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		tr.log.Error("Failed to find trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.Hex()),
		)
		return nil, fmt.Errorf("find trip %s: %w", id.Hex(), err)
	}

	return &trip, nil
}
