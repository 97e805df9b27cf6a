package domain

import "time"

// RefreshToken is a stored refresh token. The signed JWT string itself is the
// primary key; presence in the store is what makes a cryptographically valid
// token acceptable for refresh.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
