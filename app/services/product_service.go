package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/repositories"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/storage"
	"gorm.io/gorm"
)

// imageFolder is the storage prefix for product images.
const imageFolder = "products"

var (
	ErrInvalidPrice     = errors.New("price must be greater than 0")
	ErrImageMissing     = errors.New("no image file provided")
	ErrImageNotManaged  = errors.New("image url is not managed by this server")
	allowedImageExts    = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}
	imageSlugRE         = regexp.MustCompile(`[^a-z0-9_-]+`)
	ErrImageInvalidType = errors.New("image type not allowed (png, jpg, jpeg, gif, webp)")
)

// CreateProductInput is the payload for creating a product.
type CreateProductInput struct {
	Name        string   `json:"name"        validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"nullable,max=2000"`
	Price       int64    `json:"price"       validate:"required,gt=0"`
	ImageURL    string   `json:"image_url"   validate:"nullable,url,max=500"`
	Category    string   `json:"category"    validate:"required,min=1,max=50"`
	Available   *bool    `json:"available"`
	Brand       string   `json:"brand"       validate:"required"`
	Countries   []string `json:"available_in_countries"`
}

// UpdateProductInput carries a partial update; nil pointers mean "unchanged".
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	Brand       *string  `json:"brand"`
	Countries   []string `json:"available_in_countries"`
}

// ProductService runs the catalog workflows.
type ProductService struct {
	products *repositories.ProductRepository
	store    cache.Store
}

func NewProductService(db *gorm.DB, store cache.Store) *ProductService {
	return &ProductService{
		products: repositories.NewProductRepository(db),
		store:    store,
	}
}

// List returns one page of products sorted by name.
func (s *ProductService) List(filter repositories.ProductFilter, page, limit int) ([]models.Product, int64, error) {
	return s.products.List(filter, page, limit)
}

// Get looks up a single product.
func (s *ProductService) Get(id uint) (models.Product, error) {
	product, err := s.products.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return product, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return product, err
}

// Create validates the brand, applies defaults, and persists the product.
// Available defaults to true when omitted; countries default to ["SN"].
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	brand, err := models.ParseBrand(input.Brand)
	if err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	countries := models.CountryCodes(input.Countries)
	if len(countries) == 0 {
		countries = models.CountryCodes{"SN"}
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		Available:   available,
		Brand:       brand,
		Countries:   countries,
	}

	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update applies a partial update to an existing product.
func (s *ProductService) Update(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	if input.Brand != nil {
		brand, err := models.ParseBrand(*input.Brand)
		if err != nil {
			return nil, err
		}
		product.Brand = brand
	}
	if input.Countries != nil {
		product.Countries = models.CountryCodes(input.Countries)
	}

	if err := s.products.Update(&product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product updated", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	err := s.products.Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

// StoreImage validates the extension, writes the image to the configured
// disk under a unique name, and returns its public URL.
func (s *ProductService) StoreImage(ctx context.Context, originalName, productName string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", ErrImageMissing
	}

	ext := strings.ToLower(path.Ext(originalName))
	if !allowedImageExts[ext] {
		return "", ErrImageInvalidType
	}

	name := imageSlug(productName)
	if name == "" {
		name = "product"
	}

	filename := fmt.Sprintf("%s/%s_%s%s", imageFolder, name, randomSuffix(), ext)
	if err := storage.Put(filename, content); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	url := storage.URL(filename)
	logger.WithCtx(ctx).Info("product image stored", "path", filename, "url", url)
	return url, nil
}

// DeleteImage removes a previously stored product image given its public
// URL. URLs that do not point into the products folder are rejected.
func (s *ProductService) DeleteImage(ctx context.Context, imageURL string) error {
	marker := "/" + imageFolder + "/"
	idx := strings.LastIndex(imageURL, marker)
	if idx == -1 {
		return ErrImageNotManaged
	}

	filename := imageFolder + "/" + imageURL[idx+len(marker):]
	if filename == imageFolder+"/" || strings.Contains(filename, "..") {
		return ErrImageNotManaged
	}

	if !storage.Exists(filename) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, filename)
	}
	if err := storage.Delete(filename); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	logger.WithCtx(ctx).Info("product image deleted", "path", filename)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.store.Invalidate(cache.Prefix("products")); err != nil {
		logger.WithCtx(ctx).Warn("products cache invalidation failed", "error", err)
	}
}

func imageSlug(name string) string {
	return strings.Trim(imageSlugRE.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
