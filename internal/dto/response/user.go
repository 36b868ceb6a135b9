package response

import (
	"time"

	"safari-booking/internal/data/entity"
)

// UserResponse is the profile view; secrets and tokens never leave the server
type UserResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	IsVerified       bool       `json:"is_verified"`
	Has2FA           bool       `json:"has_2fa"`
	HasGoogleLinked  bool       `json:"has_google_linked"`
	HasAppleLinked   bool       `json:"has_apple_linked"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:              user.ID.Hex(),
		Name:            user.Name,
		Email:           user.Email,
		IsVerified:      user.IsVerified,
		Has2FA:          user.Has2FA(),
		HasGoogleLinked: user.GoogleID != "",
		HasAppleLinked:  user.AppleID != "",
		LastLogin:       user.LastLogin,
		CreatedAt:       user.CreatedAt,
	}
}
