package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"goerp/internal/delivery/http/helpers"
	"goerp/internal/domain"
)

// ProductRequest is the request body for creating or updating a product.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	IsActive    *bool   `json:"is_active"`
}

// Validate implements Validator.
func (p ProductRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, "sku is required")
	}
	if p.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if p.Stock < 0 {
		errs = append(errs, "stock must not be negative")
	}
	return errs
}

func (p ProductRequest) toDomain() *domain.Product {
	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}
	return &domain.Product{
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         strings.TrimSpace(p.SKU),
		Category:    strings.TrimSpace(p.Category),
		Brand:       strings.TrimSpace(p.Brand),
		IsActive:    isActive,
	}
}

// ProductSuccessResponse is the success response envelope for single-product endpoints.
type ProductSuccessResponse struct {
	Data  *domain.Product   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ProductListData is the data payload for GET /products.
type ProductListData struct {
	Products []*domain.Product      `json:"products"`
	Meta     helpers.PaginationMeta `json:"meta"`
}

// ProductController handles product catalog endpoints.
type ProductController struct {
	Logger  *slog.Logger
	Service domain.ProductService
}

// NewProductController creates a ProductController with the given logger and service.
func NewProductController(logger *slog.Logger, svc domain.ProductService) *ProductController {
	return &ProductController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains products and pagination meta"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /products [get]
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	products, total, err := c.Service.List(r.Context(), p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ProductListData{
		Products: products,
		Meta:     helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} controllers.ProductSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /products/{id} [get]
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "product not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, product)
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProductRequest true "Product fields"
// @Success 201 {object} controllers.ProductSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /products [post]
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	product := req.toDomain()
	if err := c.Service.Create(r.Context(), product); err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "sku already in use")
			return
		}
		if strings.Contains(err.Error(), "invalid product") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body ProductRequest true "Product fields"
// @Success 200 {object} controllers.ProductSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /products/{id} [put]
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	product := req.toDomain()
	product.ID = r.PathValue("id")
	if err := c.Service.Update(r.Context(), product); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "product not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateSKU) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "sku already in use")
			return
		}
		if strings.Contains(err.Error(), "invalid product") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /products/{id} [delete]
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "product not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
