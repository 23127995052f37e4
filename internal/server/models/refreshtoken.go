package models

import "time"

// RefreshToken is a server-stored, single-use refresh token. Tokens are
// rotated on every refresh.
type RefreshToken struct {
	ID        string
	UserID    int64
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
