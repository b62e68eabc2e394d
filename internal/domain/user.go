package domain

import "time"

// UserID identifies a registered user. It is a dedicated type so that
// ownership checks compare typed ids, never raw strings from other contexts.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// User is the domain model for registered identities.
type User struct {
	ID           UserID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
