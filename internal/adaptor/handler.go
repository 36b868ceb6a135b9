package adaptor

import (
	"errors"
	"net/http"

	"safari-booking/internal/usecase"
	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	OAuth   *OAuthHandler
	User    *UserHandler
	Booking *BookingHandler
	Guest   *GuestHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		OAuth:   NewOAuthHandler(service.OAuth, config, log),
		User:    NewUserHandler(service.User, log),
		Booking: NewBookingHandler(service.Booking, service.Trip, log),
		Guest:   NewGuestHandler(service.Guest, config, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// handleServiceError translates service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verification *usecase.VerificationRequiredError

	switch {
	case errors.As(err, &verification):
		log.Warn(operation+" blocked - email not verified", zap.String("email", verification.Email))
		utils.ResponseJSON(w, http.StatusBadRequest, false, verification.Error(), map[string]any{
			"email":                verification.Email,
			"requiresVerification": true,
		}, nil)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrPaymentIncomplete),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidChallenge),
		errors.Is(err, usecase.ErrInvalidCode),
		errors.Is(err, usecase.ErrInvalidPassword):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrTokenExpired):
		log.Warn(operation+" failed - expired token", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
