package models

import "time"

// AccessToken is the server-side record of an issued JWT, keyed by the
// token's jti claim. Deleting the row revokes the token regardless of its
// signed expiry.
type AccessToken struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
