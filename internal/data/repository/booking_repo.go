package repository

import (
	"context"
	"fmt"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// BookingFilter narrows FindByUser by lifecycle status; empty means no filter
type BookingFilter struct {
	BookingStatus string
	PaymentStatus string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Booking, error)
	FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*entity.Booking, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, filter BookingFilter) ([]*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateGuest(ctx context.Context, bookingID primitive.ObjectID, index int, guest entity.Guest) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type bookingRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewBookingRepository(db *database.DB, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		coll: db.Collection("bookings"),
		log:  log,
	}
}

func (br *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	_, err := br.coll.InsertOne(ctx, booking)
	if err != nil {
		br.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_ref", booking.BookingRef),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingRef, err)
	}

	return nil
}

func (br *bookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Booking, error) {
	return br.findOne(ctx, bson.M{"_id": id})
}

// FindByIDAndUser scopes the lookup to the owning user. A miss for either
// reason looks identical to the caller.
func (br *bookingRepository) FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*entity.Booking, error) {
	return br.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (br *bookingRepository) findOne(ctx context.Context, filter bson.M) (*entity.Booking, error) {
	var booking entity.Booking
	err := br.coll.FindOne(ctx, filter).Decode(&booking)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		br.log.Error("Failed to find booking", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("find booking: %w", err)
	}

	return &booking, nil
}

func (br *bookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, filter BookingFilter) ([]*entity.Booking, error) {
	query := bson.M{"user_id": userID}
	if filter.BookingStatus != "" {
		query["booking_status"] = filter.BookingStatus
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := br.coll.Find(ctx, query, opts)
	if err != nil {
		br.log.Error("Failed to find bookings",
			zap.Error(err),
			zap.String("user_id", userID.Hex()),
		)
		return nil, fmt.Errorf("find bookings for user %s: %w", userID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		br.log.Error("Failed to decode bookings", zap.Error(err))
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	return bookings, nil
}

// Update replaces the whole booking document; multi-field mutations such as
// capture settlement plus guest flags land in one atomic write
func (br *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	booking.UpdatedAt = time.Now()

	result, err := br.coll.ReplaceOne(ctx, bson.M{"_id": booking.ID}, booking)
	if err != nil {
		br.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.Hex()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.Hex())
	}

	return nil
}

// DeleteByUser removes every booking owned by the user, returning how many
// documents went away
func (br *bookingRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := br.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		br.log.Error("Failed to delete bookings",
			zap.Error(err),
			zap.String("user_id", userID.Hex()),
		)
		return 0, fmt.Errorf("delete bookings for user %s: %w", userID.Hex(), err)
	}

	return result.DeletedCount, nil
}

// UpdateGuest writes a single guest sub-document by positional index
func (br *bookingRepository) UpdateGuest(ctx context.Context, bookingID primitive.ObjectID, index int, guest entity.Guest) error {
	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("guests.%d", index): guest,
			"updated_at":                    time.Now(),
		},
	}

	result, err := br.coll.UpdateOne(ctx, bson.M{"_id": bookingID}, update)
	if err != nil {
		br.log.Error("Failed to update guest",
			zap.Error(err),
			zap.String("booking_id", bookingID.Hex()),
			zap.Int("guest_index", index),
		)
		return fmt.Errorf("update guest %d of booking %s: %w", index, bookingID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID.Hex())
	}

	return nil
}
