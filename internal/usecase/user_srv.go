package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/request"
	"safari-booking/internal/dto/response"
	"safari-booking/pkg/mailer"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, email string) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, email string, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, email string, req *request.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, email string) error
}

type userService struct {
	repo    *repository.Repository
	mail    mailer.Mailer
	storage storage.Storage
	config  *utils.Config
	log     *zap.Logger
}

func NewUserService(
	repo *repository.Repository,
	mail mailer.Mailer,
	store storage.Storage,
	config *utils.Config,
	log *zap.Logger,
) UserService {
	return &userService{
		repo:    repo,
		mail:    mail,
		storage: store,
		config:  config,
		log:     log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, email string) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load profile", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to load profile")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, email string, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if req.Name == "" && req.Email == "" {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for update", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to update profile")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	emailChanged := false
	newEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if newEmail != "" && newEmail != user.Email {
		existing, err := s.repo.User.FindByEmail(ctx, newEmail)
		if err != nil {
			s.log.Error("Failed to check new email", zap.Error(err))
			return nil, fmt.Errorf("failed to update profile")
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: email is already in use", ErrConflict)
		}

		// A new address has to prove itself again
		verificationToken, err := utils.GenerateSecureToken()
		if err != nil {
			s.log.Error("Failed to generate verification token", zap.Error(err))
			return nil, fmt.Errorf("failed to update profile")
		}

		user.Email = newEmail
		user.IsVerified = false
		user.VerificationToken = verificationToken
		emailChanged = true
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("failed to update profile")
	}

	if emailChanged {
		if err := s.mail.SendVerificationEmail(user.Email, user.VerificationToken); err != nil {
			s.log.Warn("Failed to send verification email after email change",
				zap.Error(err),
				zap.String("user_id", user.ID.Hex()),
			)
		}
	}

	s.log.Info("Profile updated",
		zap.String("user_id", user.ID.Hex()),
		zap.Bool("email_changed", emailChanged),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ChangePassword(ctx context.Context, email string, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for password change", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to change password")
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	// Accounts created through a provider have no password to change
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: this account has no password set", ErrInvalidState)
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return ErrInvalidPassword
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to change password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to change password", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to change password")
	}

	s.log.Info("Password changed", zap.String("user_id", user.ID.Hex()))
	return nil
}

// DeleteAccount removes the user, their bookings, and any documents those
// bookings uploaded. Storage cleanup is best effort; the account goes away
// regardless.
func (s *userService) DeleteAccount(ctx context.Context, email string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for deletion", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to delete account")
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindByUser(ctx, user.ID, repository.BookingFilter{})
	if err != nil {
		s.log.Error("Failed to load bookings for deletion", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to delete account")
	}

	for _, booking := range bookings {
		for _, guest := range booking.Guests {
			s.deleteDocument(ctx, guest.Passport)
			s.deleteDocument(ctx, guest.MedicalCertificate)
			s.deleteDocument(ctx, guest.TravelInsurance)
		}
	}

	deleted, err := s.repo.Booking.DeleteByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete account")
	}

	if err := s.repo.User.Delete(ctx, user.ID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("failed to delete account")
	}

	s.log.Info("Account deleted",
		zap.String("user_id", user.ID.Hex()),
		zap.Int64("bookings_removed", deleted),
	)
	return nil
}

func (s *userService) deleteDocument(ctx context.Context, url string) {
	if url == "" {
		return
	}
	publicID := storage.PublicIDFromURL(url, s.config.Storage.Folder)
	if publicID == "" {
		return
	}
	if err := s.storage.Delete(ctx, publicID); err != nil {
		s.log.Warn("Failed to delete stored document", zap.Error(err), zap.String("public_id", publicID))
	}
}
