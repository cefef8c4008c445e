package user

import "time"

// User represents a registered account. The username is the identity and is
// immutable once created.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}
