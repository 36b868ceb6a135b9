package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/dto/request"
	"safari-booking/pkg/utils"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newVerifiedUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	return &entity.User{
		Base: entity.Base{
			ID:        primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	users := &fakeUserRepo{}
	mail := &fakeMailer{}
	svc := NewAuthService(testRepo(users, nil, nil), mail, testConfig(), testLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Amina",
		Email:    "Amina@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	created := users.users[0]
	assert.Equal(t, "amina@example.com", created.Email)
	assert.False(t, created.IsVerified)
	assert.NotEmpty(t, created.VerificationToken)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	require.Len(t, mail.verifications, 1)
	assert.Equal(t, created.VerificationToken, mail.verifications[0].token)

	// Login before verifying is refused and names the email
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "secret123"})
	var verification *VerificationRequiredError
	require.ErrorAs(t, err, &verification)
	assert.Equal(t, "amina@example.com", verification.Email)

	resp, err := svc.VerifyEmail(ctx, mail.verifications[0].token)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", resp.Email)
	assert.True(t, created.IsVerified)
	assert.Empty(t, created.VerificationToken)

	// The token is single use
	_, err = svc.VerifyEmail(ctx, mail.verifications[0].token)
	assert.ErrorIs(t, err, ErrNotFound)

	login, err := svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.False(t, login.Requires2FA)

	claims, err := utils.ParseToken("test-secret", login.Token)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", claims.Email)
	assert.Empty(t, claims.Purpose)
	assert.WithinDuration(t,
		time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{users: []*entity.User{newVerifiedUser(t, "taken@example.com", "pw123456")}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "pw123456",
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, users.users, 1)
}

func TestRegisterRollsBackWhenEmailFails(t *testing.T) {
	users := &fakeUserRepo{}
	mail := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := NewAuthService(testRepo(users, nil, nil), mail, testConfig(), testLogger())

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Amina",
		Email:    "amina@example.com",
		Password: "secret123",
	})
	require.Error(t, err)

	// The account must not survive an undeliverable verification link
	assert.Empty(t, users.users)
	assert.Len(t, users.deleted, 1)
}

func TestLoginBadCredentials(t *testing.T) {
	users := &fakeUserRepo{users: []*entity.User{newVerifiedUser(t, "amina@example.com", "secret123")}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())
	ctx := context.Background()

	_, wrongPw := svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "nope-nope"})
	_, unknown := svc.Login(ctx, &request.LoginRequest{Email: "ghost@example.com", Password: "nope-nope"})

	// Wrong password and unknown account are indistinguishable
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestVerifyEmailExpiredWindow(t *testing.T) {
	user := newVerifiedUser(t, "slow@example.com", "secret123")
	user.IsVerified = false
	user.VerificationToken = "stale-token"
	user.UpdatedAt = time.Now().Add(-25 * time.Hour)

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())

	_, err := svc.VerifyEmail(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrTokenExpired)
	// The stale token is burned server-side
	assert.Empty(t, user.VerificationToken)
}

func TestLoginWith2FAIssuesChallengeOnly(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "t", AccountName: "amina@example.com"})
	require.NoError(t, err)

	user := newVerifiedUser(t, "amina@example.com", "secret123")
	user.TwoFactorSecret = key.Secret()
	user.TwoFactorEnabled = true

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())
	ctx := context.Background()

	login, err := svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.True(t, login.Requires2FA)
	assert.Empty(t, login.Token)
	require.NotEmpty(t, login.TempToken)

	claims, err := utils.ParseToken("test-secret", login.TempToken)
	require.NoError(t, err)
	assert.Equal(t, utils.ChallengePurpose2FA, claims.Purpose)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, time.Minute)

	// Correct code completes the login
	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	session, err := svc.Verify2FA(ctx, &request.Verify2FARequest{TempToken: login.TempToken, Code: code})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	// Wrong code does not
	_, err = svc.Verify2FA(ctx, &request.Verify2FARequest{TempToken: login.TempToken, Code: "000000"})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerify2FARejectsBadChallenges(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	user.TwoFactorSecret = "JBSWY3DPEHPK3PXP"

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())
	ctx := context.Background()

	// A session token is not a challenge token
	session, err := utils.GenerateSessionToken("test-secret", "amina@example.com", 7)
	require.NoError(t, err)
	_, err = svc.Verify2FA(ctx, &request.Verify2FARequest{TempToken: session, Code: "123456"})
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	// Expired challenges are refused
	expired, err := utils.GenerateChallengeToken("test-secret", "amina@example.com", -1)
	require.NoError(t, err)
	_, err = svc.Verify2FA(ctx, &request.Verify2FARequest{TempToken: expired, Code: "123456"})
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestTwoFactorSetupLifecycle(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())
	ctx := context.Background()

	// Enabling without a pending setup fails
	err := svc.Enable2FA(ctx, "amina@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidState)

	setup, err := svc.Generate2FASecret(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.OTPAuthURL, "otpauth://")

	status, err := svc.Get2FAStatus(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.True(t, status.SetupInProgress)

	// A pending secret does not yet gate login
	assert.False(t, user.Has2FA())

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable2FA(ctx, "amina@example.com", code))

	assert.True(t, user.Has2FA())
	assert.Empty(t, user.TwoFactorTempSecret)

	// Disable needs both the password and a current code
	code, err = totp.GenerateCode(user.TwoFactorSecret, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Disable2FA(ctx, "amina@example.com", code, "wrong-pass"), ErrInvalidPassword)
	assert.ErrorIs(t, svc.Disable2FA(ctx, "amina@example.com", "000000", "secret123"), ErrInvalidCode)

	code, err = totp.GenerateCode(user.TwoFactorSecret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Disable2FA(ctx, "amina@example.com", code, "secret123"))
	assert.False(t, user.Has2FA())
}

func TestResendVerification(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	user.IsVerified = false
	user.VerificationToken = "old-token"

	users := &fakeUserRepo{users: []*entity.User{user}}
	mail := &fakeMailer{}
	svc := NewAuthService(testRepo(users, nil, nil), mail, testConfig(), testLogger())
	ctx := context.Background()

	require.NoError(t, svc.ResendVerification(ctx, "amina@example.com"))
	require.Len(t, mail.verifications, 1)
	assert.NotEqual(t, "old-token", mail.verifications[0].token)
	assert.Equal(t, user.VerificationToken, mail.verifications[0].token)

	// Already verified accounts cannot request another link
	user.IsVerified = true
	assert.ErrorIs(t, svc.ResendVerification(ctx, "amina@example.com"), ErrValidation)

	assert.ErrorIs(t, svc.ResendVerification(ctx, "ghost@example.com"), ErrValidation)
}

func TestPasswordResetFlow(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "oldsecret")
	users := &fakeUserRepo{users: []*entity.User{user}}
	mail := &fakeMailer{}
	svc := NewAuthService(testRepo(users, nil, nil), mail, testConfig(), testLogger())
	ctx := context.Background()

	// Unknown addresses get the same silent success and no email
	require.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))
	assert.Empty(t, mail.resets)

	require.NoError(t, svc.ForgotPassword(ctx, "amina@example.com"))
	require.Len(t, mail.resets, 1)
	token := mail.resets[0].token
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *user.ResetPasswordExpires, time.Minute)

	require.NoError(t, svc.ResetPassword(ctx, token, "newsecret"))
	assert.Empty(t, user.ResetPasswordToken)
	assert.Nil(t, user.ResetPasswordExpires)

	// Old password out, new password in
	_, err := svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "oldsecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "amina@example.com", Password: "newsecret"})
	assert.NoError(t, err)

	// The reset token is single use
	err = svc.ResetPassword(ctx, token, "another-one")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "oldsecret")
	expired := time.Now().Add(-time.Minute)
	user.ResetPasswordToken = "stale"
	user.ResetPasswordExpires = &expired

	users := &fakeUserRepo{users: []*entity.User{user}}
	svc := NewAuthService(testRepo(users, nil, nil), &fakeMailer{}, testConfig(), testLogger())

	err := svc.ResetPassword(context.Background(), "stale", "newsecret")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestForgotPasswordClearsTokenWhenEmailFails(t *testing.T) {
	user := newVerifiedUser(t, "amina@example.com", "secret123")
	users := &fakeUserRepo{users: []*entity.User{user}}
	mail := &fakeMailer{sendErr: fmt.Errorf("smtp down")}
	svc := NewAuthService(testRepo(users, nil, nil), mail, testConfig(), testLogger())

	err := svc.ForgotPassword(context.Background(), "amina@example.com")
	require.Error(t, err)

	// A token nobody received must not stay usable
	assert.Empty(t, user.ResetPasswordToken)
	assert.Nil(t, user.ResetPasswordExpires)
}
