// Package services implements the business workflows behind the controllers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/repositories"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/ws"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// Notifier dispatches the SMS fan-out after an order is placed.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
}

// Publisher pushes order events to live subscribers.
type Publisher interface {
	Publish(ev ws.OrderEvent)
}

// OrderLineInput is one requested line of a new order.
type OrderLineInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// PlaceOrderInput is the payload for placing an order.
type PlaceOrderInput struct {
	CustomerName string           `json:"customer_name" validate:"required,min=1,max=100"`
	Mobile       string           `json:"mobile"        validate:"required,phone"`
	Address      string           `json:"address"       validate:"required,min=5"`
	Details      string           `json:"details"       validate:"nullable,max=500"`
	Items        []OrderLineInput `json:"items"         validate:"required"`
}

// OrderService runs the order placement and status workflows.
type OrderService struct {
	db       *gorm.DB
	orders   *repositories.OrderRepository
	store    cache.Store
	notifier Notifier
	pub      Publisher
}

func NewOrderService(db *gorm.DB, store cache.Store, notifier Notifier, pub Publisher) *OrderService {
	return &OrderService{
		db:       db,
		orders:   repositories.NewOrderRepository(db),
		store:    store,
		notifier: notifier,
		pub:      pub,
	}
}

// List returns one page of orders, newest first.
func (s *OrderService) List(status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	return s.orders.List(status, page, limit)
}

// Get looks up a single order.
func (s *OrderService) Get(id uint) (models.Order, error) {
	order, err := s.orders.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return order, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	return order, err
}

// Place runs the full placement workflow: every line's product is resolved
// and checked inside one transaction, prices and names are snapshotted, the
// total is computed server-side, and the order is persisted atomically. Any
// failing line aborts the whole order with nothing persisted.
//
// After the commit the orders cache is invalidated, SMS notifications go
// out in a detached goroutine (best effort, never delays the response),
// and the event feed is notified.
func (s *OrderService) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	order := &models.Order{
		CustomerName: input.CustomerName,
		Mobile:       input.Mobile,
		Address:      input.Address,
		Details:      input.Details,
		Status:       models.StatusReceived,
	}

	brands := map[models.Brand]bool{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := make(models.OrderItems, 0, len(input.Items))
		var total int64

		for _, line := range input.Items {
			if line.Quantity < 1 {
				return fmt.Errorf("%w: got %d", ErrInvalidQuantity, line.Quantity)
			}

			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
				}
				return err
			}
			if !product.Available {
				return fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
			}

			subtotal := product.Price * int64(line.Quantity)
			total += subtotal
			brands[product.Brand] = true

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  line.Quantity,
				Subtotal:  subtotal,
			})
		}

		order.Items = items
		order.Total = total
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Invalidate(cache.Prefix("orders")); err != nil {
		logger.WithCtx(ctx).Warn("orders cache invalidation failed", "error", err)
	}

	for brand := range brands {
		metrics.OrdersCreated.WithLabelValues(string(brand)).Inc()
	}

	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID,
		"customer", order.CustomerName,
		"total", order.Total,
	)

	if s.notifier != nil {
		// Detached from the request context: the response going out must
		// not cancel an in-flight gateway call.
		go s.notifier.OrderCreated(context.WithoutCancel(ctx), order)
	}
	if s.pub != nil {
		s.pub.Publish(ws.OrderEvent{
			Event:   "order.created",
			OrderID: order.ID,
			Status:  string(order.Status),
			Total:   order.Total,
		})
	}

	return order, nil
}

// UpdateStatus moves an order to a new status. Any transition between the
// known statuses is allowed; a backward move is logged as a warning since
// it usually means an operator mistake.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	old := order.Status
	if statusRank(status) < statusRank(old) {
		logger.WithCtx(ctx).Warn("order status moved backwards",
			"order_id", order.ID, "from", old, "to", status)
	}

	order.Status = status
	if err := s.orders.Update(&order); err != nil {
		return nil, err
	}

	if err := s.store.Invalidate(cache.Prefix("orders")); err != nil {
		logger.WithCtx(ctx).Warn("orders cache invalidation failed", "error", err)
	}

	logger.WithCtx(ctx).Info("order status updated",
		"order_id", order.ID, "from", old, "to", status)

	if s.pub != nil {
		s.pub.Publish(ws.OrderEvent{
			Event:   "order.updated",
			OrderID: order.ID,
			Status:  string(order.Status),
			Total:   order.Total,
		})
	}

	return &order, nil
}

func statusRank(s models.OrderStatus) int {
	switch s {
	case models.StatusReceived:
		return 0
	case models.StatusPrepared:
		return 1
	case models.StatusDelivered:
		return 2
	}
	return -1
}
