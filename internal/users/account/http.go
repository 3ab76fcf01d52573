// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codelearn/codelearn-api/internal/platform/middleware"
	requestutil "github.com/codelearn/codelearn-api/internal/platform/request"
	"github.com/codelearn/codelearn-api/internal/platform/respond"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/platform/validate"
	"github.com/codelearn/codelearn-api/internal/users/auth"
	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements user management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with user management routes.
//
// # Endpoints
//
// Reads require authentication; writes and status flips require the admin role.
//   - GET    /                    : Paginated account list.
//   - GET    /active              : Paginated list of active accounts only.
//   - GET    /search              : Keyword search over username and email.
//   - GET    /stats               : Aggregate account counts (admin).
//   - GET    /{id}                : Single account by ID.
//   - GET    /username/{username} : Single account by username.
//   - POST   /                    : Create an account with an explicit role (admin).
//   - PUT    /{id}                : Update profile fields (admin).
//   - DELETE /{id}                : Remove an account (admin).
//   - PATCH  /{id}/enable         : Re-enable a disabled account (admin).
//   - PATCH  /{id}/disable        : Lock an account out of login (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
		r.Get("/active", handler.listActive)
		r.Get("/search", handler.search)
		r.Get("/{id}", handler.getByID)
		r.Get("/username/{username}", handler.getByUsername)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/stats", handler.stats)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
		r.Patch("/{id}/enable", handler.enable)
		r.Patch("/{id}/disable", handler.disable)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

/*
List returns one page of user accounts.

GET /api/v1/users?page=&limit=

Response:
  - 200: Paginated list of accounts
  - 401: ErrUnauthorized
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListActive returns one page of accounts whose status is active.

GET /api/v1/users/active?page=&limit=

Response:
  - 200: Paginated list of active accounts
  - 401: ErrUnauthorized
*/
func (handler *Handler) listActive(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.ListActive(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Search returns accounts whose username or email matches a keyword.

GET /api/v1/users/search?q=&page=&limit=

Response:
  - 200: Paginated list of matches
  - 400: ErrValidation: Missing keyword
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	keyword := request.URL.Query().Get("q")
	if keyword == "" {
		respond.Error(writer, request, validate.RequiredError("q", "Search keyword is required"))
		return
	}

	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.Search(request.Context(), keyword, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Stats returns aggregate account counts for the admin dashboard.

GET /api/v1/users/stats

Response:
  - 200: Stats payload
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.accountService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

/*
GetByID returns a single account.

GET /api/v1/users/{id}

Response:
  - 200: Account payload
  - 404: ErrNotFound
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GetByUsername returns a single account resolved by username.

GET /api/v1/users/username/{username}

Response:
  - 200: Account payload
  - 404: ErrNotFound
*/
func (handler *Handler) getByUsername(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if username == "" {
		respond.Error(writer, request, validate.RequiredError(auth.FieldUsername, "Username is required"))
		return
	}

	user, err := handler.accountService.GetByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Create provisions a new account with an explicit role.

POST /api/v1/users

Request:
  - Body: createUserRequest (Username, Email, Password, Role)

Response:
  - 201: Created account
  - 400: ErrInvalidJSON or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		MinLen(auth.FieldUsername, input.Username, 3).
		MaxLen(auth.FieldUsername, input.Username, 50).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, 6)

	if input.Role != "" {
		validator.OneOf(auth.FieldRole, input.Role, string(sec.RoleUser), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Update modifies an existing account's profile fields.

PUT /api/v1/users/{id}

Request:
  - Body: updateUserRequest; empty fields keep their current value

Response:
  - 200: Updated account
  - 404: ErrNotFound
  - 409: ErrConflict: New username or email already taken
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)

	if input.Email != "" {
		validator.Email(auth.FieldEmail, input.Email)
	}
	if input.Username != "" {
		validator.MinLen(auth.FieldUsername, input.Username, 3).
			MaxLen(auth.FieldUsername, input.Username, 50)
	}
	if input.Password != "" {
		validator.MinLen(auth.FieldPassword, input.Password, 6)
	}
	if input.Role != "" {
		validator.OneOf(auth.FieldRole, input.Role, string(sec.RoleUser), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), id, UpdateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Remove deletes an account permanently.

DELETE /api/v1/users/{id}

Response:
  - 204: No Content
  - 404: ErrNotFound
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.accountService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Enable re-activates a disabled account.

PATCH /api/v1/users/{id}/enable

Response:
  - 200: Confirmation message
  - 404: ErrNotFound
*/
func (handler *Handler) enable(writer http.ResponseWriter, request *http.Request) {
	handler.setStatus(writer, request, auth.StatusActive, "User enabled successfully")
}

/*
Disable locks an account out of login.

PATCH /api/v1/users/{id}/disable

Description: Blocks future logins only. Tokens already issued for the account
stay valid until their natural expiry.

Response:
  - 200: Confirmation message
  - 404: ErrNotFound
*/
func (handler *Handler) disable(writer http.ResponseWriter, request *http.Request) {
	handler.setStatus(writer, request, auth.StatusDisabled, "User disabled successfully")
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request, status auth.UserStatus, message string) {
	id := requestutil.Param(request, "id")

	if err := handler.accountService.SetStatus(request.Context(), id, status); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: message,
	})
}
