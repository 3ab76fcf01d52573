// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codelearn/codelearn-api/internal/platform/middleware"
	requestutil "github.com/codelearn/codelearn-api/internal/platform/request"
	"github.com/codelearn/codelearn-api/internal/platform/respond"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/platform/validate"
	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements catalog HTTP endpoints.
type Handler struct {
	productService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{productService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//
// Reads require authentication; writes require the admin role.
//   - GET    /            : Paginated product list, optional category filter.
//   - GET    /search      : Keyword search over name and description.
//   - GET    /{id}        : Single product by ID.
//   - GET    /slug/{slug} : Single product by URL slug.
//   - POST   /            : Create a product (admin).
//   - PUT    /{id}        : Update a product (admin).
//   - DELETE /{id}        : Remove a product (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
		r.Get("/search", handler.search)
		r.Get("/{id}", handler.getByID)
		r.Get("/slug/{slug}", handler.getBySlug)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// # Request Payloads

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}

/*
List returns one page of products.

GET /api/v1/products?page=&limit=&category=

Response:
  - 200: Paginated list of products
  - 401: ErrUnauthorized
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	category := request.URL.Query().Get(FieldCategory)

	products, total, err := handler.productService.List(request.Context(), category, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Search returns products whose name or description matches a keyword.

GET /api/v1/products/search?q=&page=&limit=

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

	products, total, err := handler.productService.Search(request.Context(), keyword, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetByID returns a single product.

GET /api/v1/products/{id}

Response:
  - 200: Product payload
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

	product, err := handler.productService.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
GetBySlug returns a single product resolved by its URL slug.

GET /api/v1/products/slug/{slug}

Response:
  - 200: Product payload
  - 404: ErrNotFound
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	productSlug := requestutil.Param(request, "slug")
	if productSlug == "" {
		respond.Error(writer, request, validate.RequiredError("slug", "Slug is required"))
		return
	}

	product, err := handler.productService.GetBySlug(request.Context(), productSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Create adds a new product to the catalog.

POST /api/v1/products

Request:
  - Body: createProductRequest (Name, Description, Price, Stock, Category)

Response:
  - 201: Created product
  - 400: ErrInvalidJSON or validation failure
  - 409: ErrConflict: A product with the same slug exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProductRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Custom(FieldPrice, input.Price < 0, "must not be negative").
		Custom(FieldStock, input.Stock < 0, "must not be negative")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
Update modifies an existing product.

PUT /api/v1/products/{id}

Request:
  - Body: updateProductRequest; absent fields keep their current value

Response:
  - 200: Updated product
  - 404: ErrNotFound
  - 409: ErrConflict: New name collides with an existing slug
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input updateProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)

	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 200)
	}
	if input.Price != nil {
		validator.Custom(FieldPrice, *input.Price < 0, "must not be negative")
	}
	if input.Stock != nil {
		validator.Custom(FieldStock, *input.Stock < 0, "must not be negative")
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.Update(request.Context(), id, UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Remove deletes a product permanently.

DELETE /api/v1/products/{id}

Response:
  - 204: No Content
  - 404: ErrNotFound
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.productService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
