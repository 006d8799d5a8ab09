package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-stock/internal/assertion"
	"catalog-stock/internal/middleware"
	"catalog-stock/internal/repository"
	"catalog-stock/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "handler-secret"

// stubCatalog answers every call with the configured result or error
type stubCatalog struct {
	result   service.StockResult
	err      error
	product  *service.ProductView
	products []service.ProductView
	created  uuid.UUID
	input    service.ProductInput
	quantity int
}

func (s *stubCatalog) IncreaseStock(ctx context.Context, id uuid.UUID, quantity int) (service.StockResult, error) {
	s.quantity = quantity
	return s.result, s.err
}

func (s *stubCatalog) ReduceStock(ctx context.Context, id uuid.UUID, quantity int) (service.StockResult, error) {
	s.quantity = -quantity
	return s.result, s.err
}

func (s *stubCatalog) GetByID(ctx context.Context, id uuid.UUID) (*service.ProductView, error) {
	return s.product, s.err
}

func (s *stubCatalog) GetAll(ctx context.Context) ([]service.ProductView, error) {
	return s.products, s.err
}

func (s *stubCatalog) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]service.ProductView, error) {
	return s.products, s.err
}

func (s *stubCatalog) Add(ctx context.Context, input service.ProductInput) (uuid.UUID, error) {
	s.input = input
	return s.created, s.err
}

func (s *stubCatalog) Update(ctx context.Context, id uuid.UUID, update service.ProductUpdate) (bool, error) {
	return s.err == nil, s.err
}

func (s *stubCatalog) ChangeCategory(ctx context.Context, productID, categoryID uuid.UUID) (bool, error) {
	return s.err == nil, s.err
}

func (s *stubCatalog) GetCategories(ctx context.Context) ([]service.CategoryView, error) {
	return nil, s.err
}

func (s *stubCatalog) AddCategory(ctx context.Context, name string, code int) (uuid.UUID, error) {
	return s.created, s.err
}

func (s *stubCatalog) UpdateCategory(ctx context.Context, id uuid.UUID, name string, code int) (bool, error) {
	return s.err == nil, s.err
}

func newRouter(stub *stubCatalog) http.Handler {
	logger := zap.NewNop()
	factory := func() service.CatalogService { return stub }
	auth := middleware.AuthMiddleware(secret, logger)
	admin := middleware.RequireAdmin(logger)
	noLimit := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewProductHandler(factory, logger).RegisterRoutes(r, auth, admin, noLimit)
	NewCategoryHandler(factory, logger).RegisterRoutes(r, auth, admin)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.IssueToken(secret, "ops", middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func send(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func intPtr(n int) *int { return &n }

// Feature: catalog-stock, Property 17: Stock results map to 200 or 422
func TestProperty_StockResultStatus(t *testing.T) {
	token := adminToken(t)

	properties := gopter.NewProperties(nil)

	properties.Property("success is 200, refusal is 422, body is the result", prop.ForAll(
		func(success bool, message string, reduce bool) bool {
			stub := &stubCatalog{result: service.StockResult{Success: success, Message: message}}
			if success {
				stub.result.StockQuantity = intPtr(9)
			}
			action := "increase"
			if reduce {
				action = "reduce"
			}

			w := send(t, newRouter(stub), http.MethodPost,
				fmt.Sprintf("/api/products/%s/stock/%s", uuid.New(), action), StockRequest{Quantity: 3}, token)

			var got service.StockResult
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				return false
			}
			want := http.StatusOK
			if !success {
				want = http.StatusUnprocessableEntity
			}
			return w.Code == want && got.Success == success && got.Message == message
		},
		gen.Bool(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestStockEndpointsPassQuantityThrough(t *testing.T) {
	stub := &stubCatalog{result: service.StockResult{Success: true}}
	router := newRouter(stub)
	id := uuid.New()

	send(t, router, http.MethodPost, "/api/products/"+id.String()+"/stock/reduce", StockRequest{Quantity: 4}, adminToken(t))
	assert.Equal(t, -4, stub.quantity)

	send(t, router, http.MethodPost, "/api/products/"+id.String()+"/stock/increase", StockRequest{Quantity: 6}, adminToken(t))
	assert.Equal(t, 6, stub.quantity)
}

func TestStockEndpointsRequireAdmin(t *testing.T) {
	router := newRouter(&stubCatalog{})
	path := "/api/products/" + uuid.New().String() + "/stock/reduce"

	assert.Equal(t, http.StatusUnauthorized, send(t, router, http.MethodPost, path, StockRequest{Quantity: 1}, "").Code)

	viewer, err := middleware.IssueToken(secret, "someone", "viewer", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, send(t, router, http.MethodPost, path, StockRequest{Quantity: 1}, viewer).Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &assertion.ValidationError{Message: "Product Name cannot be empty"}, http.StatusBadRequest},
		{"product missing", repository.ErrProductNotFound, http.StatusNotFound},
		{"category missing", repository.ErrCategoryNotFound, http.StatusNotFound},
		{"version conflict", &repository.PersistenceError{Op: "commit", Err: repository.ErrConcurrentUpdate}, http.StatusConflict},
		{"duplicate code", &repository.PersistenceError{Op: "commit", Err: repository.ErrCategoryCodeTaken}, http.StatusConflict},
		{"storage", &repository.PersistenceError{Op: "commit", Err: fmt.Errorf("connection reset")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&stubCatalog{err: tt.err})

			w := send(t, router, http.MethodPost, "/api/products/"+uuid.New().String()+"/stock/increase",
				StockRequest{Quantity: 1}, adminToken(t))

			assert.Equal(t, tt.status, w.Code)
			var response middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error.Message)
		})
	}
}

func TestInvalidPathIDIsRejected(t *testing.T) {
	w := send(t, newRouter(&stubCatalog{}), http.MethodGet, "/api/products/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicReads(t *testing.T) {
	id := uuid.New()
	stub := &stubCatalog{
		product:  &service.ProductView{ID: id, Name: "Calzone"},
		products: []service.ProductView{{ID: id, Name: "Calzone"}},
	}
	router := newRouter(stub)

	w := send(t, router, http.MethodGet, "/api/products/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view service.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Calzone", view.Name)

	w = send(t, router, http.MethodGet, "/api/categories/"+uuid.New().String()+"/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []service.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, send(t, router, http.MethodGet, "/api/products", nil, "").Code)
}

func TestCreateProduct(t *testing.T) {
	stub := &stubCatalog{created: uuid.New()}
	router := newRouter(stub)
	categoryID := uuid.New()

	w := send(t, router, http.MethodPost, "/api/products", map[string]any{
		"name":        "Calzone",
		"description": "Folded pizza",
		"active":      true,
		"price":       "12.50",
		"thumbnail":   "calzone.png",
		"category_id": categoryID.String(),
		"dimensions":  map[string]string{"height": "5", "width": "20", "depth": "10"},
	}, adminToken(t))

	require.Equal(t, http.StatusCreated, w.Code)
	var created CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, stub.created, created.ID)
	assert.Equal(t, categoryID, stub.input.CategoryID)
	assert.Equal(t, "12.5", stub.input.Price.String())
	require.NotNil(t, stub.input.Dimensions)
	assert.Equal(t, "20", stub.input.Dimensions.Width.String())
}

func TestCreateProductValidation(t *testing.T) {
	router := newRouter(&stubCatalog{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"description": "d", "price": "1", "thumbnail": "t", "category_id": uuid.New().String()}},
		{"negative price", map[string]any{"name": "n", "description": "d", "price": "-1", "thumbnail": "t", "category_id": uuid.New().String()}},
		{"bad category id", map[string]any{"name": "n", "description": "d", "price": "1", "thumbnail": "t", "category_id": "x"}},
		{"zero height", map[string]any{"name": "n", "description": "d", "price": "1", "thumbnail": "t", "category_id": uuid.New().String(),
			"dimensions": map[string]string{"height": "0", "width": "1", "depth": "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(t, router, http.MethodPost, "/api/products", tt.body, adminToken(t))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCategoryRoutes(t *testing.T) {
	stub := &stubCatalog{created: uuid.New()}
	router := newRouter(stub)
	token := adminToken(t)

	assert.Equal(t, http.StatusCreated, send(t, router, http.MethodPost, "/api/categories", CategoryRequest{Name: "Drinks", Code: 2}, token).Code)
	assert.Equal(t, http.StatusBadRequest, send(t, router, http.MethodPost, "/api/categories", CategoryRequest{Name: "Drinks", Code: 0}, token).Code)
	assert.Equal(t, http.StatusOK, send(t, router, http.MethodPut, "/api/categories/"+uuid.New().String(), CategoryRequest{Name: "Soft drinks", Code: 2}, token).Code)
	assert.Equal(t, http.StatusOK, send(t, router, http.MethodGet, "/api/categories", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, send(t, router, http.MethodGet, "/api/categories", nil, "").Code)
}

func TestUpdateAndChangeCategory(t *testing.T) {
	router := newRouter(&stubCatalog{})
	token := adminToken(t)
	path := "/api/products/" + uuid.New().String()

	w := send(t, router, http.MethodPut, path, map[string]any{"description": "Spicy", "active": false}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var updated UpdatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Updated)

	assert.Equal(t, http.StatusOK, send(t, router, http.MethodPut, path+"/category", ChangeCategoryRequest{CategoryID: uuid.New().String()}, token).Code)
	assert.Equal(t, http.StatusBadRequest, send(t, router, http.MethodPut, path+"/category", ChangeCategoryRequest{}, token).Code)
}
