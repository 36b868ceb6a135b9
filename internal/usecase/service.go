package usecase

import (
	"safari-booking/internal/data/repository"
	"safari-booking/pkg/mailer"
	"safari-booking/pkg/payment"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every application service behind one constructor
type Service struct {
	Auth    AuthService
	OAuth   OAuthService
	User    UserService
	Trip    TripService
	Booking BookingService
	Guest   GuestService
	Payment PaymentService
}

func NewService(
	repo *repository.Repository,
	mail mailer.Mailer,
	store storage.Storage,
	gateway payment.Gateway,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, mail, config, log),
		OAuth:   NewOAuthService(repo, config, log),
		User:    NewUserService(repo, mail, store, config, log),
		Trip:    NewTripService(repo, log),
		Booking: NewBookingService(repo, log),
		Guest:   NewGuestService(repo, store, config, log),
		Payment: NewPaymentService(repo, gateway, log),
	}
}
