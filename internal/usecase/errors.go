package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all services. Handlers translate them to HTTP
// statuses; wrap with fmt.Errorf("%w: detail", Err...) to add context.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidChallenge   = errors.New("invalid or expired temporary token")
	ErrInvalidCode        = errors.New("invalid 2FA code")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrNotFound           = errors.New("not found")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidState       = errors.New("operation not valid for current state")
	ErrPaymentIncomplete  = errors.New("payment was not completed")
)

// VerificationRequiredError is returned by Login for unverified accounts; the
// email is echoed back so the client can offer a resend.
type VerificationRequiredError struct {
	Email string
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("please verify your email before logging in: %s", e.Email)
}
