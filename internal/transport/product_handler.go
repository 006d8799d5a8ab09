package transport

import (
	"context"
	"net/http"

	"catalog-stock/internal/middleware"
	"catalog-stock/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DimensionsRequest struct {
	Height decimal.Decimal `json:"height" validate:"gt=0"`
	Width  decimal.Decimal `json:"width" validate:"gt=0"`
	Depth  decimal.Decimal `json:"depth" validate:"gt=0"`
}

func (d *DimensionsRequest) view() *service.DimensionsView {
	if d == nil {
		return nil
	}
	return &service.DimensionsView{Height: d.Height, Width: d.Width, Depth: d.Depth}
}

type CreateProductRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Description string             `json:"description" validate:"required,max=510"`
	Active      bool               `json:"active"`
	Price       decimal.Decimal    `json:"price" validate:"gte=0"`
	Thumbnail   string             `json:"thumbnail" validate:"required,max=255"`
	CategoryID  string             `json:"category_id" validate:"required,uuid"`
	Dimensions  *DimensionsRequest `json:"dimensions"`
}

type UpdateProductRequest struct {
	Description *string            `json:"description" validate:"omitempty,max=510"`
	Active      *bool              `json:"active"`
	Dimensions  *DimensionsRequest `json:"dimensions"`
}

type ChangeCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

// StockRequest carries the quantity to add or remove. Non-positive values are answered
// by the catalog service with a failed result rather than rejected here.
type StockRequest struct {
	Quantity int `json:"quantity"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

type ProductHandler struct {
	catalog CatalogFactory
	logger  *zap.Logger
}

func NewProductHandler(catalog CatalogFactory, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes mounts the product routes. Reads are public; writes need admin, and
// stock adjustments are additionally rate limited.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware, stockLimiter func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/category", h.ChangeCategory)

			r.With(stockLimiter).Post("/{id}/stock/increase", h.IncreaseStock)
			r.With(stockLimiter).Post("/{id}/stock/reduce", h.ReduceStock)
		})
	})
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog().GetAll(r.Context())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	product, err := h.catalog().GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create product validation failed", zap.Error(err))
		respondWithDecodeError(w, err)
		return
	}

	id, err := h.catalog().Add(r.Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		Price:       req.Price,
		Thumbnail:   req.Thumbnail,
		CategoryID:  uuid.MustParse(req.CategoryID),
		Dimensions:  req.Dimensions.view(),
	})
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	updated, err := h.catalog().Update(r.Context(), id, service.ProductUpdate{
		Description: req.Description,
		Active:      req.Active,
		Dimensions:  req.Dimensions.view(),
	})
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UpdatedResponse{Updated: updated})
}

func (h *ProductHandler) ChangeCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var req ChangeCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	updated, err := h.catalog().ChangeCategory(r.Context(), id, uuid.MustParse(req.CategoryID))
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to change product category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UpdatedResponse{Updated: updated})
}

func (h *ProductHandler) IncreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, service.CatalogService.IncreaseStock)
}

func (h *ProductHandler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, service.CatalogService.ReduceStock)
}

type stockAdjustment func(service.CatalogService, context.Context, uuid.UUID, int) (service.StockResult, error)

// adjustStock answers 200 with the result on success and 422 with the result when the
// adjustment was refused
func (h *ProductHandler) adjustStock(w http.ResponseWriter, r *http.Request, adjust stockAdjustment) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var req StockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	result, err := adjust(h.catalog(), r.Context(), id, req.Quantity)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "failed to adjust stock")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	middleware.RespondWithJSON(w, status, result)
}
