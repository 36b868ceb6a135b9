package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/data/repository"
	"safari-booking/pkg/payment"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// In-memory fakes standing in for Mongo and the external collaborators.

type fakeUserRepo struct {
	users     []*entity.User
	createErr error
	updateErr error
	deleted   []primitive.ObjectID
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.Email = strings.ToLower(user.Email)
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	for _, u := range f.users {
		if !u.IsVerified && u.VerificationToken != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByResetToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	for _, u := range f.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	for _, u := range f.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByAppleID(_ context.Context, appleID string) (*entity.User, error) {
	for _, u := range f.users {
		if u.AppleID != "" && u.AppleID == appleID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.ID.Hex())
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeTripRepo struct {
	trips []*entity.Trip
}

func (f *fakeTripRepo) FindAll(_ context.Context, isActive *bool) ([]*entity.Trip, error) {
	var out []*entity.Trip
	for _, t := range f.trips {
		if isActive == nil || t.IsActive == *isActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Trip, error) {
	for _, t := range f.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

type fakeBookingRepo struct {
	bookings     []*entity.Booking
	createCalls  int
	updateCalls  int
	guestUpdates int
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.createCalls++
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByIDAndUser(_ context.Context, id, userID primitive.ObjectID) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUser(_ context.Context, userID primitive.ObjectID, filter repository.BookingFilter) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if filter.BookingStatus != "" && string(b.BookingStatus) != filter.BookingStatus {
			continue
		}
		if filter.PaymentStatus != "" && string(b.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	f.updateCalls++
	for i, b := range f.bookings {
		if b.ID == booking.ID {
			f.bookings[i] = booking
			return nil
		}
	}
	return fmt.Errorf("booking %s not found", booking.ID.Hex())
}

func (f *fakeBookingRepo) UpdateGuest(_ context.Context, bookingID primitive.ObjectID, index int, guest entity.Guest) error {
	f.guestUpdates++
	for _, b := range f.bookings {
		if b.ID == bookingID {
			b.Guests[index] = guest
			return nil
		}
	}
	return fmt.Errorf("booking %s not found", bookingID.Hex())
}

func (f *fakeBookingRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var kept []*entity.Booking
	var deleted int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	f.bookings = kept
	return deleted, nil
}

type sentMail struct {
	email string
	token string
}

type fakeMailer struct {
	verifications []sentMail
	resets        []sentMail
	sendErr       error
}

func (f *fakeMailer) SendVerificationEmail(email, token string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.verifications = append(f.verifications, sentMail{email, token})
	return nil
}

func (f *fakeMailer) SendPasswordResetEmail(email, token string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.resets = append(f.resets, sentMail{email, token})
	return nil
}

type fakeStorage struct {
	uploads []string
	deletes []string
}

func (f *fakeStorage) Upload(_ context.Context, _ io.Reader, filename string) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, filename)
	publicID := fmt.Sprintf("guest-documents/upload-%d", len(f.uploads))
	return &storage.UploadResult{
		URL:      fmt.Sprintf("https://files.example.com/%s.jpg", publicID),
		PublicID: publicID,
	}, nil
}

func (f *fakeStorage) Delete(_ context.Context, publicID string) error {
	f.deletes = append(f.deletes, publicID)
	return nil
}

type fakeGateway struct {
	orderID       string
	createErr     error
	captureResult *payment.CaptureResult
	captureErr    error
	captured      []string
}

func (f *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.orderID, nil
}

func (f *fakeGateway) CaptureOrder(_ context.Context, orderID string) (*payment.CaptureResult, error) {
	f.captured = append(f.captured, orderID)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.captureResult, nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:      "safari-booking",
			ClientURL: "http://localhost:3000",
		},
		JWT: utils.JWTConfig{
			Secret:             "test-secret",
			SessionExpiryDays:  7,
			ChallengeExpiryMin: 5,
		},
		Storage: utils.StorageConfig{
			Folder: "guest-documents",
		},
		Upload: utils.UploadConfig{
			MaxSizeBytes: 5 * 1024 * 1024,
		},
	}
}

func testRepo(users *fakeUserRepo, trips *fakeTripRepo, bookings *fakeBookingRepo) *repository.Repository {
	if users == nil {
		users = &fakeUserRepo{}
	}
	if trips == nil {
		trips = &fakeTripRepo{}
	}
	if bookings == nil {
		bookings = &fakeBookingRepo{}
	}
	return &repository.Repository{
		User:    users,
		Trip:    trips,
		Booking: bookings,
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
