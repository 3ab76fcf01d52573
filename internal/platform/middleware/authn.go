// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/ctxkey"
	"github.com/codelearn/codelearn-api/internal/platform/ctxutil"
	"github.com/codelearn/codelearn-api/internal/platform/respond"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. If the request path matches a public prefix, skip extraction entirely.
//  2. Check for 'Authorization: Bearer <token>' header.
//  3. If absent, the request proceeds as anonymous.
//  4. If present, parse and verify the JWT via [TokenVerifier].
//  5. On success, inject [*sec.AuthClaims] into the request context.
//  6. On failure, short-circuit with a structured 401; downstream handlers
//     and role gates never run.
//
// # Revocation Window
//
// Claims are trusted for the token's full TTL. The account's disabled flag is
// checked at login time only, not per request; disabling an account does not
// invalidate tokens already issued for it.
//
// # Parameters
//   - verifier: The TokenVerifier instance.
//   - publicPrefixes: Path prefixes that bypass the middleware entirely.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(verifier TokenVerifier, publicPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Public Allow-List ──────────────────────────────────────────
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(request.URL.Path, prefix) {
					next.ServeHTTP(writer, request)
					return
				}
			}

			authHeader := request.Header.Get("Authorization")

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 4. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, verifyFailure(err))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// verifyFailure maps a token verification error to a client-safe 401.
//
// Expired tokens get their own message so clients know to re-authenticate;
// malformed and tampered tokens share a generic one.
func verifyFailure(err error) *apperr.AppError {
	if errors.Is(err, sec.ErrTokenExpired) {
		return apperr.Unauthorized("Token expired")
	}
	return apperr.Unauthorized("Invalid token")
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN); missing → 401.
//  2. Check the user's role against the declared requirement with
//     [sec.UserRole.Is] — an exact match, no hierarchy.
//  3. On mismatch, abort with HTTP 403 Forbidden.
//
// The decision is evaluated fresh per request from the context claims; nothing
// is cached across requests.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			userRole := sec.UserRole(claims.Role)
			if !userRole.Is(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
