package wire

import (
	"safari-booking/internal/adaptor"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)
	r.With(auth).Post("/api/payment/create-order", paymentHandler.CreateOrder)
	r.With(auth).Post("/api/payment/capture-order", paymentHandler.CaptureOrder)
	r.With(auth).Get("/api/payment/status/{bookingId}", paymentHandler.GetStatus)
	r.With(auth).Post("/api/payment/refund", paymentHandler.Refund)
}
