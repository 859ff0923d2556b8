package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-catalog/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubService struct {
	createFn   func(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	getFn      func(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	getSKUFn   func(ctx context.Context, sku string) (catalog.Product, error)
	listFn     func(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error)
	updateFn   func(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
	setStockFn func(ctx context.Context, id uuid.UUID, quantity int, op catalog.StockOp) (catalog.Product, error)
	reserveFn  func(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	lowStockFn func(ctx context.Context, threshold int) ([]catalog.Product, error)
	categoryFn func(ctx context.Context, category string) ([]catalog.Product, error)
	searchFn   func(ctx context.Context, term string) ([]catalog.Product, error)
}

func (s *stubService) CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error) {
	return s.createFn(ctx, in)
}
func (s *stubService) GetProduct(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	return s.getFn(ctx, id)
}
func (s *stubService) GetProductBySKU(ctx context.Context, sku string) (catalog.Product, error) {
	return s.getSKUFn(ctx, sku)
}
func (s *stubService) ListProducts(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
	return s.listFn(ctx, q)
}
func (s *stubService) UpdateProduct(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error) {
	return s.updateFn(ctx, id, patch)
}
func (s *stubService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *stubService) SetStock(ctx context.Context, id uuid.UUID, quantity int, op catalog.StockOp) (catalog.Product, error) {
	return s.setStockFn(ctx, id, quantity, op)
}
func (s *stubService) ReserveStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	return s.reserveFn(ctx, id, quantity)
}
func (s *stubService) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	return s.lowStockFn(ctx, threshold)
}
func (s *stubService) FindByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return s.categoryFn(ctx, category)
}
func (s *stubService) SearchProducts(ctx context.Context, term string) ([]catalog.Product, error) {
	return s.searchFn(ctx, term)
}

type stubChecker struct{ err error }

func (s stubChecker) Health() error { return s.err }

func setupRouter(svc ProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc), stubChecker{})
	return r
}

func testProduct() catalog.Product {
	return catalog.Product{
		ID:       uuid.New(),
		Name:     "Widget",
		Price:    decimal.RequireFromString("9.99"),
		SKU:      "W-1",
		Category: "Tools",
		InStock:  true,
		Quantity: 5,
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHandler_CreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools","quantity":5}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing required fields",
			body:       `{"name":"Widget"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative quantity rejected at the boundary",
			body:       `{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools","quantity":-1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "core validation error",
			body:       `{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools"}`,
			svcErr:     catalog.NewValidationError("price", "must be greater than zero"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate sku",
			body:       `{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools"}`,
			svcErr:     catalog.ErrSKUExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "storage unavailable",
			body:       `{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools"}`,
			svcErr:     fmt.Errorf("repo create: %w", catalog.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				createFn: func(_ context.Context, _ catalog.CreateInput) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return testProduct(), nil
				},
			}

			w := doJSON(t, setupRouter(svc), http.MethodPost, "/products", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d, body: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			body := decodeEnvelope(t, w)
			wantSuccess := tt.wantStatus == http.StatusCreated
			if body["success"] != wantSuccess {
				t.Fatalf("want success=%v, got %v", wantSuccess, body["success"])
			}
		})
	}
}

func TestHandler_CreateProduct_PriceAsNumber(t *testing.T) {
	svc := &stubService{
		createFn: func(_ context.Context, in catalog.CreateInput) (catalog.Product, error) {
			p := testProduct()
			p.Price = in.Price
			return p, nil
		},
	}

	w := doJSON(t, setupRouter(svc), http.MethodPost, "/products",
		`{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}

	// price must serialize as a bare JSON number, not a quoted string
	if !bytes.Contains(w.Body.Bytes(), []byte(`"price":9.99`)) {
		t.Fatalf("want unquoted price in %s", w.Body.String())
	}
}

func TestHandler_GetProduct(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		url        string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			url:        "/products/" + id.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			url:        "/products/" + uuid.NewString(),
			svcErr:     catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			url:        "/products/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				getFn: func(_ context.Context, _ uuid.UUID) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return testProduct(), nil
				},
			}

			w := doJSON(t, setupRouter(svc), http.MethodGet, tt.url, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d, body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_GetProductBySKU(t *testing.T) {
	svc := &stubService{
		getSKUFn: func(_ context.Context, sku string) (catalog.Product, error) {
			if sku != "W-1" {
				return catalog.Product{}, catalog.ErrNotFound
			}
			return testProduct(), nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/products/sku/W-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/products/sku/MISSING", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}

func TestHandler_ListProducts(t *testing.T) {
	t.Run("query params forwarded", func(t *testing.T) {
		var got catalog.ListQuery
		svc := &stubService{
			listFn: func(_ context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
				got = q
				return []catalog.Product{testProduct()}, catalog.NewPagination(q.Page, q.Limit, 1), nil
			},
		}

		url := "/products?page=2&limit=5&category=Tools&search=wid&minPrice=1.50&maxPrice=20&sortBy=price&sortOrder=asc"
		w := doJSON(t, setupRouter(svc), http.MethodGet, url, "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
		}

		if got.Page != 2 || got.Limit != 5 || got.Category != "Tools" || got.Search != "wid" {
			t.Fatalf("unexpected query: %+v", got)
		}
		if got.MinPrice == nil || !got.MinPrice.Equal(decimal.RequireFromString("1.50")) {
			t.Fatalf("want minPrice 1.50, got %v", got.MinPrice)
		}
		if got.SortBy != catalog.SortByPrice || got.SortOrder != catalog.SortAsc {
			t.Fatalf("unexpected sort: %+v", got)
		}
	})

	t.Run("defaults applied for absent params", func(t *testing.T) {
		var got catalog.ListQuery
		svc := &stubService{
			listFn: func(_ context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
				got = q
				return []catalog.Product{}, catalog.NewPagination(q.Page, q.Limit, 0), nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		if got.Page != catalog.DefaultPage || got.Limit != catalog.DefaultLimit {
			t.Fatalf("want defaults, got %+v", got)
		}
	})

	t.Run("non-numeric page is a validation failure", func(t *testing.T) {
		svc := &stubService{
			listFn: func(_ context.Context, _ catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
				t.Fatal("service should not be called")
				return nil, catalog.Pagination{}, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products?page=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}

		body := decodeEnvelope(t, w)
		errs, ok := body["errors"].(map[string]any)
		if !ok {
			t.Fatalf("want errors map in %v", body)
		}
		if _, ok := errs["page"]; !ok {
			t.Fatalf("want page error in %v", errs)
		}
	})

	t.Run("empty catalog envelope", func(t *testing.T) {
		svc := &stubService{
			listFn: func(_ context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
				return []catalog.Product{}, catalog.NewPagination(q.Page, q.Limit, 0), nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products", "")

		var resp struct {
			Success    bool               `json:"success"`
			Data       []catalog.Product  `json:"data"`
			Pagination catalog.Pagination `json:"pagination"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.Data == nil || len(resp.Data) != 0 {
			t.Fatalf("want success with empty data array, got %+v", resp)
		}
		want := catalog.Pagination{Page: 1, Limit: 10}
		if resp.Pagination != want {
			t.Fatalf("want %+v, got %+v", want, resp.Pagination)
		}
	})
}

func TestHandler_UpdateProduct(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name       string
		method     string
		body       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "patch success",
			method:     http.MethodPatch,
			body:       `{"name":"Gadget"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "put routes to the same handler",
			method:     http.MethodPut,
			body:       `{"name":"Gadget"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			method:     http.MethodPatch,
			body:       `{"name":"Gadget"}`,
			svcErr:     catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "sku conflict",
			method:     http.MethodPatch,
			body:       `{"sku":"TAKEN"}`,
			svcErr:     catalog.ErrSKUExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "empty patch",
			method:     http.MethodPatch,
			body:       `{}`,
			svcErr:     catalog.NewValidationError("body", "at least one updatable field is required"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				updateFn: func(_ context.Context, _ uuid.UUID, _ catalog.Patch) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return testProduct(), nil
				},
			}

			w := doJSON(t, setupRouter(svc), tt.method, "/products/"+id, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d, body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_UpdateProduct_IgnoresInStock(t *testing.T) {
	var got catalog.Patch
	svc := &stubService{
		updateFn: func(_ context.Context, _ uuid.UUID, patch catalog.Patch) (catalog.Product, error) {
			got = patch
			return testProduct(), nil
		},
	}

	// inStock is not an updatable field; a caller supplying it changes nothing.
	w := doJSON(t, setupRouter(svc), http.MethodPatch, "/products/"+uuid.NewString(),
		`{"name":"Gadget","inStock":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got.Name == nil || *got.Name != "Gadget" {
		t.Fatalf("want name in patch, got %+v", got)
	}
	if got.Quantity != nil {
		t.Fatalf("want no quantity in patch, got %+v", got)
	}
}

func TestHandler_DeleteProduct(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			url:        "/products/" + uuid.NewString(),
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "not found",
			url:        "/products/" + uuid.NewString(),
			svcErr:     catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			url:        "/products/abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				deleteFn: func(_ context.Context, _ uuid.UUID) error {
					return tt.svcErr
				},
			}

			w := doJSON(t, setupRouter(svc), http.MethodDelete, tt.url, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d, body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_SetStock(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantOp     catalog.StockOp
		wantQty    int
	}{
		{
			name:       "subtract",
			body:       `{"quantity":3,"operation":"subtract"}`,
			wantStatus: http.StatusOK,
			wantOp:     catalog.StockSubtract,
			wantQty:    3,
		},
		{
			name:       "set accepts zero",
			body:       `{"quantity":0,"operation":"set"}`,
			wantStatus: http.StatusOK,
			wantOp:     catalog.StockSet,
			wantQty:    0,
		},
		{
			name:       "unknown operation",
			body:       `{"quantity":3,"operation":"clamp"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative quantity",
			body:       `{"quantity":-3,"operation":"set"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing operation",
			body:       `{"quantity":3}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient stock",
			body:       `{"quantity":10,"operation":"subtract"}`,
			svcErr:     catalog.ErrInsufficientStock,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			body:       `{"quantity":3,"operation":"set"}`,
			svcErr:     catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotOp catalog.StockOp
			var gotQty int
			svc := &stubService{
				setStockFn: func(_ context.Context, _ uuid.UUID, quantity int, op catalog.StockOp) (catalog.Product, error) {
					gotOp, gotQty = op, quantity
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return testProduct(), nil
				},
			}

			w := doJSON(t, setupRouter(svc), http.MethodPatch, "/products/"+id+"/stock", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d, body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && tt.svcErr == nil {
				if gotOp != tt.wantOp || gotQty != tt.wantQty {
					t.Fatalf("want %s %d, got %s %d", tt.wantOp, tt.wantQty, gotOp, gotQty)
				}
			}
		})
	}
}

func TestHandler_ReserveStock(t *testing.T) {
	id := uuid.NewString()

	t.Run("accepted", func(t *testing.T) {
		svc := &stubService{
			reserveFn: func(_ context.Context, _ uuid.UUID, quantity int) (bool, error) {
				return true, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/products/"+id+"/reserve", `{"quantity":1}`)
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		body := decodeEnvelope(t, w)
		if body["success"] != true {
			t.Fatalf("want success=true, got %v", body)
		}
	})

	t.Run("insufficient stock is HTTP 200 with success=false", func(t *testing.T) {
		svc := &stubService{
			reserveFn: func(_ context.Context, _ uuid.UUID, _ int) (bool, error) {
				return false, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/products/"+id+"/reserve", `{"quantity":3}`)
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		body := decodeEnvelope(t, w)
		if body["success"] != false {
			t.Fatalf("want success=false, got %v", body)
		}
		if body["message"] != msgInsufficientStock {
			t.Fatalf("want message %q, got %v", msgInsufficientStock, body["message"])
		}
	})

	t.Run("missing product is a 404", func(t *testing.T) {
		svc := &stubService{
			reserveFn: func(_ context.Context, _ uuid.UUID, _ int) (bool, error) {
				return false, catalog.ErrNotFound
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/products/"+id+"/reserve", `{"quantity":1}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", w.Code)
		}
	})

	t.Run("zero quantity rejected at the boundary", func(t *testing.T) {
		svc := &stubService{
			reserveFn: func(_ context.Context, _ uuid.UUID, _ int) (bool, error) {
				t.Fatal("service should not be called")
				return false, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/products/"+id+"/reserve", `{"quantity":0}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	})
}

func TestHandler_FindLowStock(t *testing.T) {
	t.Run("default threshold", func(t *testing.T) {
		var got int
		svc := &stubService{
			lowStockFn: func(_ context.Context, threshold int) ([]catalog.Product, error) {
				got = threshold
				return []catalog.Product{}, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/low-stock", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		if got != defaultLowStockThreshold {
			t.Fatalf("want default threshold %d, got %d", defaultLowStockThreshold, got)
		}
	})

	t.Run("explicit threshold", func(t *testing.T) {
		var got int
		svc := &stubService{
			lowStockFn: func(_ context.Context, threshold int) ([]catalog.Product, error) {
				got = threshold
				return []catalog.Product{}, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/low-stock?threshold=3", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		if got != 3 {
			t.Fatalf("want threshold 3, got %d", got)
		}
	})

	t.Run("non-numeric threshold rejected", func(t *testing.T) {
		svc := &stubService{
			lowStockFn: func(_ context.Context, _ int) ([]catalog.Product, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/low-stock?threshold=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	})
}

func TestHandler_FindByCategory(t *testing.T) {
	var got string
	svc := &stubService{
		categoryFn: func(_ context.Context, category string) ([]catalog.Product, error) {
			got = category
			return []catalog.Product{testProduct()}, nil
		},
	}

	w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/category/Tools", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got != "Tools" {
		t.Fatalf("want category Tools, got %q", got)
	}
}

func TestHandler_SearchProducts(t *testing.T) {
	t.Run("forwards the term", func(t *testing.T) {
		var got string
		svc := &stubService{
			searchFn: func(_ context.Context, term string) ([]catalog.Product, error) {
				got = term
				return []catalog.Product{}, nil
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/search?q=widget", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		if got != "widget" {
			t.Fatalf("want term widget, got %q", got)
		}
	})

	t.Run("blank term rejected by the core", func(t *testing.T) {
		svc := &stubService{
			searchFn: func(_ context.Context, _ string) ([]catalog.Product, error) {
				return nil, catalog.NewValidationError("q", "is required")
			},
		}

		w := doJSON(t, setupRouter(svc), http.MethodGet, "/products/search", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	})
}

func TestHandler_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		r := gin.New()
		RegisterRoutes(r, NewHandler(&stubService{}), stubChecker{})

		w := doJSON(t, r, http.MethodGet, "/healthz", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		r := gin.New()
		RegisterRoutes(r, NewHandler(&stubService{}), stubChecker{err: fmt.Errorf("no connection")})

		w := doJSON(t, r, http.MethodGet, "/healthz", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("want 503, got %d", w.Code)
		}
	})
}
