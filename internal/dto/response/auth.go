package response

// UserSummary is the user block echoed on successful login
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
	Has2FA     bool   `json:"has_2fa"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

// LoginResponse covers both outcomes of step one: a full session token, or a
// short-lived challenge token when 2FA must be completed first
type LoginResponse struct {
	Token       string       `json:"token,omitempty"`
	Requires2FA bool         `json:"requires2FA,omitempty"`
	TempToken   string       `json:"tempToken,omitempty"`
	Email       string       `json:"email,omitempty"`
	User        *UserSummary `json:"user,omitempty"`
}

type VerifyEmailResponse struct {
	Email string `json:"email"`
}

type TwoFASetupResponse struct {
	Secret         string `json:"secret"`
	OTPAuthURL     string `json:"otpauthUrl"`
	ManualEntryKey string `json:"manualEntryKey"`
}

type TwoFAStatusResponse struct {
	Enabled         bool `json:"enabled"`
	SetupInProgress bool `json:"hasSetupInProgress"`
}
