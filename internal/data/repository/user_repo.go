package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	FindByAppleID(ctx context.Context, appleID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type userRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewUserRepository(db *database.DB, log *zap.Logger) UserRepository {
	return &userRepository{
		coll: db.Collection("users"),
		log:  log,
	}
}

// Create inserts a new user document
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := ur.coll.InsertOne(ctx, user)
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"_id": id})
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// FindByVerificationToken only matches users who are still unverified
func (ur *userRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{
		"verification_token": token,
		"is_verified":        false,
	})
}

// FindByResetToken matches only when the stored expiry is still in the future
func (ur *userRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": now},
	})
}

func (ur *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"google_id": googleID})
}

func (ur *userRepository) FindByAppleID(ctx context.Context, appleID string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"apple_id": appleID})
}

func (ur *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	err := ur.coll.FindOne(ctx, filter).Decode(&user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}

// Update replaces the whole user document in a single atomic write
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	result, err := ur.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.Hex()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", user.ID.Hex())
	}

	return nil
}

func (ur *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := ur.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("id", id.Hex()),
		)
		return fmt.Errorf("delete user %s: %w", id.Hex(), err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s not found", id.Hex())
	}

	ur.log.Info("User deleted", zap.String("id", id.Hex()))
	return nil
}
