package models

import "time"

// User is an account row. PasswordHash holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
