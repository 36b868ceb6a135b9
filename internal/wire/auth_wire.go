package wire

import (
	"safari-booking/internal/adaptor"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	oauthHandler *adaptor.OAuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/register", authHandler.Register)
	r.Get("/api/auth/verify-email/{token}", authHandler.VerifyEmail)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/verify-2fa", authHandler.Verify2FA)
	r.Post("/api/auth/resend-verification", authHandler.ResendVerification)
	r.Post("/api/auth/forgot-password", authHandler.ForgotPassword)
	r.Post("/api/auth/reset-password/{token}", authHandler.ResetPassword)

	// Federated sign-in redirect flows
	r.Get("/api/auth/google", oauthHandler.GoogleLogin)
	r.Get("/api/auth/google/callback", oauthHandler.GoogleCallback)
	r.Get("/api/auth/apple", oauthHandler.AppleLogin)
	r.Post("/api/auth/apple/callback", oauthHandler.AppleCallback)

	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)
	r.With(auth).Post("/api/auth/2fa/generate-secret", authHandler.Generate2FASecret)
	r.With(auth).Post("/api/auth/2fa/enable", authHandler.Enable2FA)
	r.With(auth).Post("/api/auth/2fa/disable", authHandler.Disable2FA)
	r.With(auth).Get("/api/auth/2fa/status", authHandler.Get2FAStatus)
}
