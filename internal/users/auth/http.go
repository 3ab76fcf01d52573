// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
HTTP delivery layer for the authentication lifecycle.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates JWT issuance and token introspection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/constants"
	"github.com/codelearn/codelearn-api/internal/platform/middleware"
	requestutil "github.com/codelearn/codelearn-api/internal/platform/request"
	"github.com/codelearn/codelearn-api/internal/platform/respond"
	"github.com/codelearn/codelearn-api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService   *Service
	tokenVerifier middleware.TokenVerifier
}

// NewHandler constructs a new [Handler] with its dependencies.
//
// The verifier backs the public token-introspection endpoint; authenticated
// routes rely on the router-level middleware instead.
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{authService: service, tokenVerifier: verifier}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
//   - GET  /validate : Introspects a bearer token without requiring auth context.
//   - POST /logout   : Acknowledges logout (stateless tokens, nothing revoked).
//   - GET  /me       : Returns the caller's own account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/validate", handler.validateToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 50).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues an access token.

POST /api/v1/auth/login

Description: Verifies credentials against the stored bcrypt hash and signs a
short-lived JWT. Unknown usernames and wrong passwords produce an identical
error; disabled accounts get a distinct code.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: Session: Access token, expiry, and user profile
  - 400: ErrInvalidCredentials / ErrAccountDisabled
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   session.ExpiresIn,
		FieldUser:        session.User,
	})
}

/*
Logout acknowledges the end of a session.

POST /api/v1/auth/logout

Description: Access tokens are stateless and stay valid until expiry, so there
is nothing to revoke server-side. The endpoint exists so clients have a uniform
lifecycle to call; they discard the token locally.

Response:
  - 200: Message confirming logout
  - 401: ErrUnauthorized: No valid token presented
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		FieldMessage: "Logged out successfully",
	})
}

/*
Me returns the account of the authenticated caller.

GET /api/v1/auth/me

Description: Resolves the subject claim of the verified token to a fresh
account row.

Response:
  - 200: User: The caller's own profile
  - 401: ErrUnauthorized: No valid token presented
  - 404: ErrNotFound: Account deleted after token issuance
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ValidateToken introspects a bearer token without requiring middleware context.

GET /api/v1/auth/validate

Description: Parses the Authorization header directly and reports whether the
presented token verifies. Useful for sibling services and debugging clients.

Response:
  - 200: Validity flag plus the token's subject claims when valid
  - 400: ErrValidation: Missing or malformed Authorization header
*/
func (handler *Handler) validateToken(writer http.ResponseWriter, request *http.Request) {
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		respond.Error(writer, request, apperr.ValidationError("Authorization header is required"))
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != constants.BearerScheme {
		respond.Error(writer, request, apperr.ValidationError("Authorization header must use the Bearer scheme"))
		return
	}

	claims, err := handler.tokenVerifier.VerifyToken(parts[1])
	if err != nil {
		respond.OK(writer, map[string]any{
			"valid": false,
		})
		return
	}

	respond.OK(writer, map[string]any{
		"valid":       true,
		"user_id":     claims.UserID,
		FieldUsername: claims.Username,
		FieldRole:     claims.Role,
	})
}
