package transport

import (
	"errors"
	"net/http"

	"catalog-stock/internal/assertion"
	"catalog-stock/internal/middleware"
	"catalog-stock/internal/repository"
	"catalog-stock/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithServiceError maps catalog errors to HTTP. Invariant violations are the
// client's fault, version conflicts can be retried, anything else is a server error.
func respondWithServiceError(w http.ResponseWriter, err error, logger *zap.Logger, fallback string) {
	switch {
	case assertion.IsValidationError(err):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, repository.ErrConcurrentUpdate):
		middleware.RespondWithError(w, http.StatusConflict, "product was modified concurrently, retry the request")
	case errors.Is(err, repository.ErrCategoryCodeTaken):
		middleware.RespondWithError(w, http.StatusConflict, "category with this code already exists")
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// respondWithDecodeError answers 400 for a body that failed to decode or validate
func respondWithDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name+" id")
		return uuid.Nil, false
	}
	return id, true
}

// CatalogFactory builds a CatalogService bound to a fresh unit of work. Handlers call it
// once per request.
type CatalogFactory func() service.CatalogService
