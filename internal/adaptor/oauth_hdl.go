package adaptor

import (
	"net/http"
	"net/url"

	"safari-booking/internal/usecase"
	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler drives the browser redirect flows. Outcomes land back on the
// frontend: /auth/success?token=... or /login?error=auth_failed.
type OAuthHandler struct {
	service usecase.OAuthService
	config  *utils.Config
	log     *zap.Logger
}

func NewOAuthHandler(service usecase.OAuthService, config *utils.Config, log *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// GoogleLogin handles GET /api/auth/google
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := utils.GenerateSecureToken()
	if err != nil {
		h.log.Error("Failed to generate oauth state", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	h.setStateCookie(w, state)
	http.Redirect(w, r, h.service.GoogleAuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.validState(r, r.URL.Query().Get("state")) {
		h.log.Warn("Google callback with bad state")
		h.redirectFailure(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.log.Warn("Google callback without code",
			zap.String("error", r.URL.Query().Get("error")))
		h.redirectFailure(w, r)
		return
	}

	response, err := h.service.HandleGoogleCallback(r.Context(), code)
	if err != nil {
		h.log.Warn("Google sign in failed", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	h.redirectSuccess(w, r, response.Token)
}

// AppleLogin handles GET /api/auth/apple
func (h *OAuthHandler) AppleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := utils.GenerateSecureToken()
	if err != nil {
		h.log.Error("Failed to generate oauth state", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	h.setStateCookie(w, state)
	http.Redirect(w, r, h.service.AppleAuthURL(state), http.StatusTemporaryRedirect)
}

// AppleCallback handles POST /api/auth/apple/callback. Apple uses
// response_mode=form_post, so code, state, and the one-time user blob arrive
// as form fields.
func (h *OAuthHandler) AppleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warn("Apple callback with unreadable form", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	if !h.validState(r, r.PostFormValue("state")) {
		h.log.Warn("Apple callback with bad state")
		h.redirectFailure(w, r)
		return
	}

	code := r.PostFormValue("code")
	if code == "" {
		h.log.Warn("Apple callback without code",
			zap.String("error", r.PostFormValue("error")))
		h.redirectFailure(w, r)
		return
	}

	response, err := h.service.HandleAppleCallback(r.Context(), code, r.PostFormValue("user"))
	if err != nil {
		h.log.Warn("Apple sign in failed", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	h.redirectSuccess(w, r, response.Token)
}

// ==================== HELPER METHODS ====================

func (h *OAuthHandler) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   !h.config.App.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) validState(r *http.Request, state string) bool {
	if state == "" {
		return false
	}
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		return false
	}
	return cookie.Value == state
}

func (h *OAuthHandler) redirectSuccess(w http.ResponseWriter, r *http.Request, token string) {
	target := h.config.App.ClientURL + "/auth/success?token=" + url.QueryEscape(token)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.config.App.ClientURL+"/login?error=auth_failed", http.StatusTemporaryRedirect)
}
