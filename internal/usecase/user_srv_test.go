package usecase

import (
	"context"
	"testing"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetProfileHidesSecrets(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	user.TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	user.GoogleID = "google-oauth-id"

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewUserService(testRepo(users, nil, nil), &fakeMailer{}, &fakeStorage{}, testConfig(), testLogger())

	resp, err := svc.GetProfile(context.Background(), "amina@example.com")
	require.NoError(t, err)

	assert.Equal(t, "amina@example.com", resp.Email)
	assert.True(t, resp.Has2FA)
	assert.True(t, resp.HasGoogleLinked)
	assert.False(t, resp.HasAppleLinked)
}

func TestUpdateProfileEmailChangeRequiresReverification(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	users := &fakeUserRepo{users: []*entity.User{user}}
	mail := &fakeMailer{}
	svc := NewUserService(testRepo(users, nil, nil), mail, &fakeStorage{}, testConfig(), testLogger())

	resp, err := svc.UpdateProfile(context.Background(), "amina@example.com", &request.UpdateProfileRequest{
		Email: "New@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", resp.Email)
	assert.False(t, resp.IsVerified)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)

	require.Len(t, mail.verifications, 1)
	assert.Equal(t, "new@example.com", mail.verifications[0].email)
	assert.Equal(t, user.VerificationToken, mail.verifications[0].token)
}

func TestUpdateProfileNameOnlyKeepsVerification(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	users := &fakeUserRepo{users: []*entity.User{user}}
	mail := &fakeMailer{}
	svc := NewUserService(testRepo(users, nil, nil), mail, &fakeStorage{}, testConfig(), testLogger())

	resp, err := svc.UpdateProfile(context.Background(), "amina@example.com", &request.UpdateProfileRequest{
		Name: "Amina Juma",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amina Juma", resp.Name)
	assert.True(t, resp.IsVerified)
	assert.Empty(t, mail.verifications)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	other := newVerifiedUser(t, "taken@example.com", "secret123")
	users := &fakeUserRepo{users: []*entity.User{user, other}}
	svc := NewUserService(testRepo(users, nil, nil), &fakeMailer{}, &fakeStorage{}, testConfig(), testLogger())

	_, err := svc.UpdateProfile(context.Background(), "amina@example.com", &request.UpdateProfileRequest{
		Email: "taken@example.com",
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "amina@example.com", user.Email)
}

func TestChangePassword(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "oldsecret")
	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewUserService(testRepo(users, nil, nil), &fakeMailer{}, &fakeStorage{}, testConfig(), testLogger())
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "amina@example.com", &request.ChangePasswordRequest{
		CurrentPassword: "wrong-one",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(ctx, "amina@example.com", &request.ChangePasswordRequest{
		CurrentPassword: "oldsecret",
		NewPassword:     "newsecret",
	}))

	authSvc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())
	_, err = authSvc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestChangePasswordNoPasswordSet(t *testing.T) {
	// Accounts created through a provider carry no hash
	user := newVerifiedUser(t, "amina@example.com", "whatever")
	user.PasswordHash = ""
	user.GoogleID = "google-oauth-id"

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewUserService(testRepo(users, nil, nil), &fakeMailer{}, &fakeStorage{}, testConfig(), testLogger())

	err := svc.ChangePassword(context.Background(), "amina@example.com", &request.ChangePasswordRequest{
		CurrentPassword: "anything",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteAccountCleansUp(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	booking := &entity.Booking{
		Base:   entity.Base{ID: primitive.NewObjectID(), CreatedAt: time.Now()},
		UserID: user.ID,
		TripID: primitive.NewObjectID(),
		Guests: []entity.Guest{
			{
				Name:               "Amina",
				Passport:           "https://files.example.com/guest-documents/passport-1.jpg",
				MedicalCertificate: "https://files.example.com/guest-documents/cert-1.pdf",
			},
			{Name: "Joseph"},
		},
	}

	users := &fakeUserRepo{users: []*entity.User{user}}
	bookings := &fakeBookingRepo{bookings: []*entity.Booking{booking}}
	store := &fakeStorage{}
	svc := NewUserService(testRepo(users, nil, bookings), &fakeMailer{}, store, testConfig(), testLogger())

	require.NoError(t, svc.DeleteAccount(context.Background(), "amina@example.com"))

	assert.Empty(t, users.users)
	assert.Empty(t, bookings.bookings)
	assert.ElementsMatch(t, []string{
		"guest-documents/passport-1",
		"guest-documents/cert-1",
	}, store.deletes)
}
