package repositories

import (
	"errors"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns one page of orders, newest first, optionally filtered by
// status, plus the total match count before pagination.
func (r *OrderRepository) List(status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// GetByID looks up an order by primary key.
func (r *OrderRepository) GetByID(id uint) (models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrNotFound
	}
	return order, err
}

// Update persists changes to an existing order.
func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}
