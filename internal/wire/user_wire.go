package wire

import (
	"safari-booking/internal/adaptor"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)
	r.With(auth).Get("/api/user/get-profile", userHandler.GetProfile)
	r.With(auth).Put("/api/user/update-profile", userHandler.UpdateProfile)
	r.With(auth).Put("/api/user/change-password", userHandler.ChangePassword)
	r.With(auth).Delete("/api/user/delete-account", userHandler.DeleteAccount)
}
