// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces (TokenProvider, TokenVerifier).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Failure Taxonomy

var (
	// ErrTokenMalformed is returned when the token is not structurally a JWT.
	ErrTokenMalformed = errors.New("sec: token malformed")

	// ErrTokenInvalidSignature is returned when the signature does not verify
	// against the process-wide signing key, or the signing method is unexpected.
	ErrTokenInvalidSignature = errors.New("sec: token signature invalid")

	// ErrTokenExpired is returned when the signature verifies but the token's
	// 'exp' claim is in the past.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and Role directly inside the JWT,
// the authentication middleware can reconstruct the active principal
// WITHOUT querying the database on every single API request. The flip side
// is accepted explicitly: a token stays valid for its full TTL even if the
// account is disabled after issuance.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Key Ownership
//
// The signing secret is loaded once at construction and never mutated; the
// service is therefore safe for unsynchronized concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: The process-wide HMAC signing key.
//   - issuer: The 'iss' claim stamped on every issued token.
//   - ttl: Fixed lifetime of issued tokens.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured token lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// GenerateAccessToken creates a new signed JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, username, role string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// # Ordering
//
// Structural and signature failures are reported before expiry: a tampered
// token must never surface information derived from its claims, so the
// mapping below classifies malformed/signature errors ahead of [ErrTokenExpired].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalidSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalidSignature, err)
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalidSignature
	}

	return claims, nil
}
