// Package auth validates the bearer tokens that identify API callers.
//
// Users are managed by an upstream identity provider. Tokens are HS256 JWTs
// whose subject is the provider's user ID.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID string) (string, error)

	// ValidateToken verifies the token and returns its claims. Expired,
	// malformed and badly signed tokens return an error from this package.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims holds the validated contents of a token.
type Claims struct {
	UserID    string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti,omitempty"`
}
