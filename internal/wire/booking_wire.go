package wire

import (
	"safari-booking/internal/adaptor"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Trip catalogue is browsable without an account
	r.Get("/api/booking/trips", bookingHandler.GetTrips)
	r.Get("/api/booking/trips/{id}", bookingHandler.GetTrip)

	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)
	r.With(auth).Post("/api/booking/bookings", bookingHandler.CreateBooking)
	r.With(auth).Get("/api/booking/bookings", bookingHandler.GetBookings)
	r.With(auth).Get("/api/booking/bookings/{id}", bookingHandler.GetBooking)
}
