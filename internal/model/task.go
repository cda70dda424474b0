package model

import "time"

// Task is a to-do item owned by exactly one user.
// OwnerID is set at creation from the authenticated identity and is
// immutable afterwards; every lookup predicates on it.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	OwnerID     string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
