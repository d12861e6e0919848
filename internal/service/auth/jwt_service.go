// Package auth issues and checks the bearer tokens that guard the
// mutating HTTP endpoints.
package auth

import (
	"context"
	"time"
)

// JWTService signs and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for subject.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken checks signature, expiry and token type and returns the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	Subject   string    `json:"sub"`
	TokenType string    `json:"type"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti"`
}
