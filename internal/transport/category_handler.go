package transport

import (
	"net/http"

	"catalog-stock/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Code int    `json:"code" validate:"gt=0"`
}

type CategoryHandler struct {
	catalog CatalogFactory
	logger  *zap.Logger
}

func NewCategoryHandler(catalog CatalogFactory, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes mounts the category routes. Listing the products of a category is
// public; managing categories needs admin.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/{id}/products", h.ListProducts)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
		})
	})
}

func (h *CategoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	products, err := h.catalog().GetByCategoryID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog().GetCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	id, err := h.catalog().AddCategory(r.Context(), req.Name, req.Code)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	updated, err := h.catalog().UpdateCategory(r.Context(), id, req.Name, req.Code)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to update category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UpdatedResponse{Updated: updated})
}
