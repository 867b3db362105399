package model

import "time"

// TokenKind distinguishes the short-lived emailed login code from the
// long-lived API token backing authenticated requests.
type TokenKind string

const (
	TokenKindEmail TokenKind = "EMAIL"
	TokenKindAPI   TokenKind = "API"
)

// Token is a persisted token record. EMAIL tokens carry the 8-digit secret
// and are single use; API tokens have no stored secret — clients present a
// signed envelope referencing the row by ID.
//
// A token is usable only while Valid is true and Expiration is in the future.
type Token struct {
	ID         int       `json:"id"`
	Kind       TokenKind `json:"kind"`
	Secret     string    `json:"-"`
	UserID     int       `json:"user_id"`
	Valid      bool      `json:"valid"`
	Expiration time.Time `json:"expiration"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenWithUser is a token joined with its owning user, as returned by the
// store lookups the credential resolver and the authenticate flow perform.
type TokenWithUser struct {
	Token
	User User `json:"user"`
}
