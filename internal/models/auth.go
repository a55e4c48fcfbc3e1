package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds the shared administrator secret.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// SessionClaims is the payload of an admin session token. There is a
// single shared administrator identity; the JTI exists so individual
// sessions can be revoked on logout.
type SessionClaims struct {
	jwt.RegisteredClaims
}
