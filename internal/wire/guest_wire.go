package wire

import (
	"safari-booking/internal/adaptor"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireGuest(
	r chi.Router,
	guestHandler *adaptor.GuestHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)
	r.With(auth).Put("/api/guest/form-submission/{bookingId}/{guestIndex}", guestHandler.UpdateGuest)
	r.With(auth).Put("/api/guest/passport-upload/{bookingId}/{guestIndex}", guestHandler.UploadPassport)
	r.With(auth).Put("/api/guest/document-upload/{bookingId}/{guestIndex}", guestHandler.UploadDocument)
	r.With(auth).Get("/api/guest/get-guest/{bookingId}/{guestIndex}", guestHandler.GetGuest)
	r.With(auth).Get("/api/guest/get-guests/{bookingId}", guestHandler.GetGuests)
	r.With(auth).Put("/api/guest/acknowledge/{bookingId}", guestHandler.Acknowledge)
	r.With(auth).Put("/api/guest/update-payment-status/{bookingId}/{guestIndex}", guestHandler.SetRegistrationPayment)
}
