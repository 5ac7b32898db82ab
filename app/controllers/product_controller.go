// Package controllers translates HTTP requests into service calls.
package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/repositories"
	"github.com/shashiranjanraj/fastfood-api/app/services"
	"github.com/shashiranjanraj/fastfood-api/config"
	"github.com/shashiranjanraj/fastfood-api/pkg/bind"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/response"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxImageBytes    = 5 << 20 // 5 MB
)

// pageParams reads page/limit query params with the API defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// urlID reads the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type productListPayload struct {
	Products   []models.Product    `json:"products"`
	Pagination response.Pagination `json:"pagination"`
}

// ProductController serves the catalog endpoints.
type ProductController struct {
	service *services.ProductService
	store   cache.Store
}

func NewProductController(service *services.ProductService, store cache.Store) *ProductController {
	return &ProductController{service: service, store: store}
}

// Index handles GET /products with filters, pagination, and response cache.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	key := cache.Key("products", r)

	var cached productListPayload
	if c.store.Get(key, &cached) {
		metrics.CacheHits.WithLabelValues("products").Inc()
		response.Success(w, cached)
		return
	}
	metrics.CacheMisses.WithLabelValues("products").Inc()

	filter := repositories.ProductFilter{}
	if v := r.URL.Query().Get("brand"); v != "" {
		brand, err := models.ParseBrand(v)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		filter.Brand = brand
	}
	filter.Category = r.URL.Query().Get("category")
	if v := r.URL.Query().Get("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "available must be a boolean")
			return
		}
		filter.Available = &available
	}

	page, limit := pageParams(r)

	products, total, err := c.service.List(filter, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product listing failed", "error", err)
		response.Internal(w)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	payload := productListPayload{
		Products:   products,
		Pagination: response.NewPagination(page, limit, total),
	}
	if err := c.store.Put(key, payload, config.CacheTTL()); err != nil {
		logger.WithCtx(r.Context()).Warn("product cache write failed", "error", err)
	}

	response.Success(w, payload)
}

// Show handles GET /products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	key := cache.Key("products", r)

	var cached models.Product
	if c.store.Get(key, &cached) {
		metrics.CacheHits.WithLabelValues("products").Inc()
		response.Success(w, cached)
		return
	}
	metrics.CacheMisses.WithLabelValues("products").Inc()

	product, err := c.service.Get(id)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	if err := c.store.Put(key, product, config.CacheTTL()); err != nil {
		logger.WithCtx(r.Context()).Warn("product cache write failed", "error", err)
	}

	response.Success(w, product)
}

// Create handles POST /products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProductInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	product, err := c.service.Create(r.Context(), input)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"message": "product created",
		"product": product,
	})
}

// Update handles PUT /products/{id} with partial semantics.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	var input services.UpdateProductInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	product, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message": "product updated",
		"product": product,
	})
}

// Delete handles DELETE /products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message":    "product deleted",
		"product_id": id,
	})
}

// UploadImage handles POST /products/upload-image (multipart form, field
// "image", optional "product_name" used to name the stored file).
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "no image file provided, use the \"image\" field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		response.Internal(w)
		return
	}
	if len(content) > maxImageBytes {
		response.BadRequest(w, "image exceeds the 5 MB limit")
		return
	}

	url, err := c.service.StoreImage(r.Context(), header.Filename, r.FormValue("product_name"), content)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message":    "image uploaded",
		"image_url":  url,
		"size_bytes": len(content),
	})
}

// DeleteImage handles DELETE /products/delete-image.
func (c *ProductController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ImageURL string `json:"image_url" validate:"required,url"`
	}
	if errs, err := bind.JSON(r, &input); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	if err := c.service.DeleteImage(r.Context(), input.ImageURL); err != nil {
		c.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{"message": "image deleted"})
}

// fail maps service errors onto HTTP statuses.
func (c *ProductController) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, models.ErrInvalidBrand),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrImageMissing),
		errors.Is(err, services.ErrImageInvalidType),
		errors.Is(err, services.ErrImageNotManaged):
		response.BadRequest(w, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("product request failed", "error", err)
		response.Internal(w)
	}
}
