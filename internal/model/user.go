// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash, ProfilePic and the active token list never leave
// the server; PublicView strips them before any response is built.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the representation safe to return to any caller.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicView returns the user without credentials or image bytes.
func (u *User) PublicView() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// HasProfilePic reports whether a profile image is stored.
func (u *User) HasProfilePic() bool {
	return len(u.ProfilePic) > 0
}
