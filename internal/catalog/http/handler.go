package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultLowStockThreshold = 10

	msgInsufficientStock = "Insufficient stock"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (catalog.Product, error)
	ListProducts(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, quantity int, op catalog.StockOp) (catalog.Product, error)
	ReserveStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error)
	FindByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	SearchProducts(ctx context.Context, term string) ([]catalog.Product, error)
}

type Handler struct {
	service ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{service: svc}
}

type createProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255" example:"Widget"`
	Description *string         `json:"description" example:"A useful widget"`
	Price       decimal.Decimal `json:"price" binding:"required" swaggertype:"number" example:"9.99"`
	SKU         string          `json:"sku" binding:"required,max=100" example:"W-1"`
	Category    string          `json:"category" binding:"required,max=100" example:"Tools"`
	Quantity    *int            `json:"quantity" binding:"omitempty,gte=0" example:"5"`
	ImageURL    *string         `json:"imageUrl" binding:"omitempty,url" example:"https://cdn.example.com/w1.png"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	SKU         *string          `json:"sku" binding:"omitempty,max=100"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Quantity    *int             `json:"quantity" binding:"omitempty,gte=0"`
	ImageURL    *string          `json:"imageUrl" binding:"omitempty,url"`
}

type stockRequest struct {
	Quantity  *int   `json:"quantity" binding:"required,gte=0" example:"3"`
	Operation string `json:"operation" binding:"required,oneof=set add subtract" example:"subtract"`
}

type reserveRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1" example:"1"`
}

type productResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    catalog.Product `json:"data"`
}

type productListResponse struct {
	Success    bool                `json:"success" example:"true"`
	Data       []catalog.Product   `json:"data"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
}

type reserveResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Insufficient stock"`
}

type errorResponse struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"product not found"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product data"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	in := catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}

	product, err := h.service.CreateProduct(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, productResponse{Success: true, Data: product})
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

// GetProductBySKU godoc
// @Summary      Get a product by SKU
// @Tags         products
// @Produce      json
// @Param        sku  path      string  true  "Product SKU"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/sku/{sku} [get]
func (h *Handler) GetProductBySKU(c *gin.Context) {
	product, err := h.service.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

// ListProducts godoc
// @Summary      List products with filtering and pagination
// @Tags         products
// @Produce      json
// @Param        page       query     int     false  "Page number"     default(1)
// @Param        limit      query     int     false  "Items per page"  default(10)
// @Param        category   query     string  false  "Exact category filter"
// @Param        search     query     string  false  "Substring filter"
// @Param        minPrice   query     number  false  "Minimum price"
// @Param        maxPrice   query     number  false  "Maximum price"
// @Param        sortBy     query     string  false  "Sort field"  Enums(name, price, createdAt, updatedAt, category, quantity)
// @Param        sortOrder  query     string  false  "Sort order"  Enums(asc, desc)
// @Success      200  {object}  productListResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	q, ok := parseListQuery(c)
	if !ok {
		return
	}

	items, pagination, err := h.service.ListProducts(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productListResponse{Success: true, Data: items, Pagination: &pagination})
}

// UpdateProduct godoc
// @Summary      Partially update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Fields to update"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /products/{id} [patch]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	patch := catalog.Patch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
		Category:    req.Category,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

// DeleteProduct godoc
// @Summary      Delete a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStock godoc
// @Summary      Set, add or subtract stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Product ID"
// @Param        body  body      stockRequest  true  "Stock mutation"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /products/{id}/stock [patch]
func (h *Handler) SetStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	op, _ := catalog.ParseStockOp(req.Operation)
	product, err := h.service.SetStock(c.Request.Context(), id, *req.Quantity, op)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

// ReserveStock godoc
// @Summary      Reserve stock for a product
// @Description  Insufficient stock is a business outcome, reported as success=false with HTTP 200.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Product ID"
// @Param        body  body      reserveRequest  true  "Quantity to reserve"
// @Success      200   {object}  reserveResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /products/{id}/reserve [post]
func (h *Handler) ReserveStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	reserved, err := h.service.ReserveStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	if !reserved {
		c.JSON(http.StatusOK, reserveResponse{Success: false, Message: msgInsufficientStock})
		return
	}
	c.JSON(http.StatusOK, reserveResponse{Success: true})
}

// FindLowStock godoc
// @Summary      List products at or below a stock threshold
// @Tags         products
// @Produce      json
// @Param        threshold  query     int  false  "Quantity threshold"  default(10)
// @Success      200  {object}  productListResponse
// @Failure      400  {object}  errorResponse
// @Router       /products/low-stock [get]
func (h *Handler) FindLowStock(c *gin.Context) {
	threshold := defaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeValidation(c, map[string]string{"threshold": "must be an integer"})
			return
		}
		threshold = value
	}

	items, err := h.service.FindLowStock(c.Request.Context(), threshold)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productListResponse{Success: true, Data: items})
}

// FindByCategory godoc
// @Summary      List products in a category
// @Tags         products
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200  {object}  productListResponse
// @Failure      400  {object}  errorResponse
// @Router       /products/category/{category} [get]
func (h *Handler) FindByCategory(c *gin.Context) {
	items, err := h.service.FindByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productListResponse{Success: true, Data: items})
}

// SearchProducts godoc
// @Summary      Search products by substring
// @Tags         products
// @Produce      json
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  productListResponse
// @Failure      400  {object}  errorResponse
// @Router       /products/search [get]
func (h *Handler) SearchProducts(c *gin.Context) {
	items, err := h.service.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productListResponse{Success: true, Data: items})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeBadRequest(c, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

func parseListQuery(c *gin.Context) (catalog.ListQuery, bool) {
	q := catalog.ListQuery{
		Page:      catalog.DefaultPage,
		Limit:     catalog.DefaultLimit,
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    catalog.SortField(c.Query("sortBy")),
		SortOrder: catalog.SortOrder(c.Query("sortOrder")),
	}

	fields := map[string]string{}
	if raw := c.Query("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			fields["page"] = "must be an integer"
		} else {
			q.Page = value
		}
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			fields["limit"] = "must be an integer"
		} else {
			q.Limit = value
		}
	}
	if raw := c.Query("minPrice"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			fields["minPrice"] = "must be a number"
		} else {
			q.MinPrice = &value
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			fields["maxPrice"] = "must be a number"
		} else {
			q.MaxPrice = &value
		}
	}

	if len(fields) > 0 {
		writeValidation(c, fields)
		return catalog.ListQuery{}, false
	}
	return q, true
}

// writeError maps a domain error to the HTTP contract. Unclassified errors
// become an opaque 500; the access log middleware carries the detail.
func writeError(c *gin.Context, err error) {
	var vErr *catalog.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeValidation(c, vErr.Fields)
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "product not found"})
	case errors.Is(err, catalog.ErrSKUExists):
		c.JSON(http.StatusConflict, errorResponse{Message: "a product with this sku already exists"})
	case errors.Is(err, catalog.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, errorResponse{Message: "insufficient stock"})
	case errors.Is(err, catalog.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "service temporarily unavailable"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: message})
}

func writeValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: fields})
}
