package dto

import (
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Field whitelists per user operation. Any other submitted field is
// rejected before validation or persistence runs.
var (
	SignupFields     = []string{"name", "age", "email", "password"}
	LoginFields      = []string{"email", "password"}
	UserUpdateFields = []string{"name", "age", "password", "email"}
)

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the request body for updating the
// authenticated user. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User        *model.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
	ExpiresIn   string            `json:"expires_in"`
}

// UserEnvelope wraps a public user for endpoints that nest it.
type UserEnvelope struct {
	User *model.PublicUser `json:"user"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToAuthResponse builds the signup/login response. The token is returned
// with the "Bearer " prefix ready for the Authorization header.
func ToAuthResponse(user *model.User, token string, ttl time.Duration) *AuthResponse {
	return &AuthResponse{
		User:        user.PublicView(),
		AccessToken: "Bearer " + token,
		ExpiresIn:   formatTTL(ttl),
	}
}

// formatTTL renders whole-hour lifetimes as "24h" style strings.
func formatTTL(ttl time.Duration) string {
	if ttl%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(ttl.Hours()))
	}
	return ttl.String()
}
