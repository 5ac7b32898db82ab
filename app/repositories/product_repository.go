// Package repositories handles database access for the domain models.
package repositories

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	Brand     models.Brand
	Category  string // case-insensitive substring match
	Available *bool
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products matching filter, sorted by name, plus
// the total match count before pagination.
func (r *ProductRepository) List(filter ProductFilter, page, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(filter.Category)+"%")
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Order("name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

// GetByID looks up a product by primary key.
func (r *ProductRepository) GetByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrNotFound
	}
	return product, err
}

// Create persists a new product record.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product by ID. Returns ErrNotFound when nothing matched.
func (r *ProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
