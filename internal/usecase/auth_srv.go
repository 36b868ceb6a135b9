package usecase

import (
	"context"
	"fmt"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/request"
	"safari-booking/internal/dto/response"
	"safari-booking/pkg/mailer"
	"safari-booking/pkg/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// verificationTokenMaxAge bounds how long an emailed verification link stays
// valid, measured from the user's last-modified timestamp
const verificationTokenMaxAge = 24 * time.Hour

const resetTokenTTL = time.Hour

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*response.VerifyEmailResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Verify2FA(ctx context.Context, req *request.Verify2FARequest) (*response.LoginResponse, error)
	Generate2FASecret(ctx context.Context, email string) (*response.TwoFASetupResponse, error)
	Enable2FA(ctx context.Context, email, code string) error
	Disable2FA(ctx context.Context, email, code, password string) error
	Get2FAStatus(ctx context.Context, email string) (*response.TwoFAStatusResponse, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		mail:   mail,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists with this email", ErrConflict)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	verificationToken, err := utils.GenerateSecureToken()
	if err != nil {
		s.log.Error("Failed to generate verification token", zap.Error(err))
		return nil, fmt.Errorf("failed to create account")
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		IsVerified:        false,
		VerificationToken: verificationToken,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	// Compensating transaction: a user we cannot reach must not exist
	if err := s.mail.SendVerificationEmail(user.Email, verificationToken); err != nil {
		s.log.Error("Failed to send verification email, rolling back registration",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		if delErr := s.repo.User.Delete(ctx, user.ID); delErr != nil {
			s.log.Error("Failed to roll back user after email failure",
				zap.Error(delErr),
				zap.String("user_id", user.ID.Hex()),
			)
		}
		return nil, fmt.Errorf("failed to send verification email")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email),
	)

	return &response.RegisterResponse{UserID: user.ID.Hex()}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*response.VerifyEmailResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: verification token is required", ErrValidation)
	}

	// Wrong, cleared, and already-used tokens all collapse to the same miss
	user, err := s.repo.User.FindByVerificationToken(ctx, token)
	if err != nil {
		s.log.Error("Failed to find user by verification token", zap.Error(err))
		return nil, fmt.Errorf("failed to verify email")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid, expired verification token or already verified", ErrNotFound)
	}

	if time.Since(user.UpdatedAt) > verificationTokenMaxAge {
		user.VerificationToken = ""
		user.UpdatedAt = time.Now()
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.log.Error("Failed to clear expired verification token",
				zap.Error(err),
				zap.String("user_id", user.ID.Hex()),
			)
		}
		return nil, fmt.Errorf("%w: verification token has expired, please request a new one", ErrTokenExpired)
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to mark user verified", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("failed to verify email")
	}

	s.log.Info("Email verified", zap.String("email", user.Email))

	return &response.VerifyEmailResponse{Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to find user")
	}
	// Same signal for unknown email and wrong password
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, &VerificationRequiredError{Email: user.Email}
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.Hex()))
		return nil, ErrInvalidCredentials
	}

	// Confirmed 2FA secret: no session token yet, only a challenge
	if user.Has2FA() {
		tempToken, err := utils.GenerateChallengeToken(
			s.config.JWT.Secret, user.Email, s.config.JWT.ChallengeExpiryMin)
		if err != nil {
			s.log.Error("Failed to generate challenge token", zap.Error(err))
			return nil, fmt.Errorf("failed to create session")
		}

		s.log.Info("2FA challenge issued", zap.String("user_id", user.ID.Hex()))

		return &response.LoginResponse{
			Requires2FA: true,
			TempToken:   tempToken,
			Email:       user.Email,
		}, nil
	}

	return s.completeLogin(ctx, user)
}

func (s *authService) Verify2FA(ctx context.Context, req *request.Verify2FARequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	claims, err := utils.ParseToken(s.config.JWT.Secret, req.TempToken)
	if err != nil || claims.Purpose != utils.ChallengePurpose2FA {
		s.log.Warn("Invalid challenge token", zap.Error(err))
		return nil, ErrInvalidChallenge
	}

	user, err := s.repo.User.FindByEmail(ctx, claims.Email)
	if err != nil {
		s.log.Error("Failed to find user for 2FA", zap.Error(err), zap.String("email", claims.Email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if !s.validateTOTP(req.Code, user.TwoFactorSecret) {
		s.log.Warn("Invalid 2FA code", zap.String("user_id", user.ID.Hex()))
		return nil, ErrInvalidCode
	}

	return s.completeLogin(ctx, user)
}

func (s *authService) Generate2FASecret(ctx context.Context, email string) (*response.TwoFASetupResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for 2FA setup", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Adventure Safari",
		AccountName: user.Email,
	})
	if err != nil {
		s.log.Error("Failed to generate 2FA secret", zap.Error(err))
		return nil, fmt.Errorf("failed to generate 2FA secret")
	}

	// Pending until a correct code confirms the authenticator has it
	user.TwoFactorTempSecret = key.Secret()
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to store pending 2FA secret", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("failed to generate 2FA secret")
	}

	s.log.Info("2FA setup started", zap.String("user_id", user.ID.Hex()))

	return &response.TwoFASetupResponse{
		Secret:         key.Secret(),
		OTPAuthURL:     key.URL(),
		ManualEntryKey: key.Secret(),
	}, nil
}

func (s *authService) Enable2FA(ctx context.Context, email, code string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for 2FA enable", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	if user.TwoFactorTempSecret == "" {
		return fmt.Errorf("%w: no pending 2FA setup found, generate a new secret first", ErrInvalidState)
	}

	if !s.validateTOTP(code, user.TwoFactorTempSecret) {
		return ErrInvalidCode
	}

	user.TwoFactorSecret = user.TwoFactorTempSecret
	user.TwoFactorTempSecret = ""
	user.TwoFactorEnabled = true
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to enable 2FA", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to enable 2FA")
	}

	s.log.Info("2FA enabled", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authService) Disable2FA(ctx context.Context, email, code, password string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for 2FA disable", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	if user.TwoFactorSecret == "" {
		return fmt.Errorf("%w: 2FA is not enabled for this account", ErrInvalidState)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return ErrInvalidPassword
	}

	if !s.validateTOTP(code, user.TwoFactorSecret) {
		return ErrInvalidCode
	}

	user.TwoFactorSecret = ""
	user.TwoFactorTempSecret = ""
	user.TwoFactorEnabled = false
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to disable 2FA", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to disable 2FA")
	}

	s.log.Info("2FA disabled", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authService) Get2FAStatus(ctx context.Context, email string) (*response.TwoFAStatusResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for 2FA status", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	return &response.TwoFAStatusResponse{
		Enabled:         user.Has2FA(),
		SetupInProgress: user.TwoFactorTempSecret != "",
	}, nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for resend", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("%w: user not found with this email address", ErrValidation)
	}

	if user.IsVerified {
		return fmt.Errorf("%w: user is already verified", ErrValidation)
	}

	verificationToken, err := utils.GenerateSecureToken()
	if err != nil {
		s.log.Error("Failed to generate verification token", zap.Error(err))
		return fmt.Errorf("failed to resend verification email")
	}

	user.VerificationToken = verificationToken
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to store new verification token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to resend verification email")
	}

	if err := s.mail.SendVerificationEmail(user.Email, verificationToken); err != nil {
		return fmt.Errorf("failed to send verification email")
	}

	return nil
}

// ForgotPassword never discloses whether the email exists
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to process password reset")
	}
	if user == nil {
		return nil
	}

	resetToken, err := utils.GenerateSecureToken()
	if err != nil {
		s.log.Error("Failed to generate reset token", zap.Error(err))
		return fmt.Errorf("failed to process password reset")
	}

	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = resetToken
	user.ResetPasswordExpires = &expires
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to store reset token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to process password reset")
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		// An undeliverable token must not stay usable
		user.ResetPasswordToken = ""
		user.ResetPasswordExpires = nil
		user.UpdatedAt = time.Now()
		if clearErr := s.repo.User.Update(ctx, user); clearErr != nil {
			s.log.Error("Failed to clear reset token after send failure",
				zap.Error(clearErr),
				zap.String("user_id", user.ID.Hex()),
			)
		}
		return fmt.Errorf("failed to send password reset email")
	}

	s.log.Info("Password reset email sent", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: reset token and new password are required", ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	}

	user, err := s.repo.User.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		s.log.Error("Failed to find user by reset token", zap.Error(err))
		return fmt.Errorf("failed to reset password")
	}
	if user == nil {
		return fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to reset password")
	}

	// New hash and token clearing land in the same write
	user.PasswordHash = hashedPassword
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to reset password", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to reset password")
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.Hex()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) completeLogin(ctx context.Context, user *entity.User) (*response.LoginResponse, error) {
	token, err := utils.GenerateSessionToken(
		s.config.JWT.Secret, user.Email, s.config.JWT.SessionExpiryDays)
	if err != nil {
		s.log.Error("Failed to generate session token", zap.Error(err))
		return nil, fmt.Errorf("failed to create session")
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Warn("Failed to update last login",
			zap.Error(err),
			zap.String("user_id", user.ID.Hex()),
		)
		// Login still succeeds
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.Hex()), zap.String("email", user.Email))

	return &response.LoginResponse{
		Token: token,
		User: &response.UserSummary{
			ID:         user.ID.Hex(),
			Name:       user.Name,
			Email:      user.Email,
			IsVerified: user.IsVerified,
			Has2FA:     user.Has2FA(),
		},
	}, nil
}

// validateTOTP checks a time-based code allowing two time steps of clock skew
func (s *authService) validateTOTP(code, secret string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      2,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}
