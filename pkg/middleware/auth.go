package middleware

import (
	"net/http"
	"strings"

	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer JWT and puts the user's email on the context.
// Challenge tokens carry a purpose tag and are rejected here; they are only
// good for completing a 2FA login.
func Auth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := utils.ParseToken(jwtSecret, parts[1])
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Token is not valid")
				return
			}

			if claims.Purpose != "" {
				logger.Warn("Purpose-scoped token used as session token",
					zap.String("purpose", claims.Purpose))
				utils.ResponseUnauthorized(w, "Token is not valid")
				return
			}

			ctx := utils.SetEmailContext(r.Context(), claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
