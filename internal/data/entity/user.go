package entity

import (
	"time"
)

// User holds local credentials, federated identities, and 2FA state.
// Invariant: a user has a password hash, at least one federated ID, or both.
type User struct {
	Base
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password,omitempty"`

	GoogleID string `bson:"google_id,omitempty"`
	AppleID  string `bson:"apple_id,omitempty"`

	IsVerified        bool   `bson:"is_verified"`
	VerificationToken string `bson:"verification_token,omitempty"`

	ResetPasswordToken   string     `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty"`

	// Confirmed secret drives login challenges; the temp secret is a pending
	// setup that becomes confirmed only after a correct code.
	TwoFactorSecret     string `bson:"two_factor_secret,omitempty"`
	TwoFactorTempSecret string `bson:"two_factor_temp_secret,omitempty"`
	TwoFactorEnabled    bool   `bson:"two_factor_enabled"`

	LastLogin *time.Time `bson:"last_login,omitempty"`
}

// Has2FA reports whether login must go through a challenge
func (u *User) Has2FA() bool {
	return u.TwoFactorSecret != ""
}
