package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/services"
	"github.com/shashiranjanraj/fastfood-api/config"
	"github.com/shashiranjanraj/fastfood-api/pkg/bind"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/response"
	"github.com/shashiranjanraj/fastfood-api/pkg/ws"
)

type orderListPayload struct {
	Orders     []models.Order      `json:"orders"`
	Pagination response.Pagination `json:"pagination"`
}

// OrderController serves the order endpoints.
type OrderController struct {
	service *services.OrderService
	store   cache.Store
	hub     *ws.Hub
}

func NewOrderController(service *services.OrderService, store cache.Store, hub *ws.Hub) *OrderController {
	return &OrderController{service: service, store: store, hub: hub}
}

// Index handles GET /orders with status filter, pagination, and cache.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	key := cache.Key("orders", r)

	var cached orderListPayload
	if c.store.Get(key, &cached) {
		metrics.CacheHits.WithLabelValues("orders").Inc()
		response.Success(w, cached)
		return
	}
	metrics.CacheMisses.WithLabelValues("orders").Inc()

	var status models.OrderStatus
	if v := r.URL.Query().Get("status"); v != "" {
		parsed, err := models.ParseOrderStatus(v)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		status = parsed
	}

	page, limit := pageParams(r)

	orders, total, err := c.service.List(status, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order listing failed", "error", err)
		response.Internal(w)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	payload := orderListPayload{
		Orders:     orders,
		Pagination: response.NewPagination(page, limit, total),
	}
	if err := c.store.Put(key, payload, config.CacheTTL()); err != nil {
		logger.WithCtx(r.Context()).Warn("order cache write failed", "error", err)
	}

	response.Success(w, payload)
}

// Show handles GET /orders/{id}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	key := cache.Key("orders", r)

	var cached models.Order
	if c.store.Get(key, &cached) {
		metrics.CacheHits.WithLabelValues("orders").Inc()
		response.Success(w, cached)
		return
	}
	metrics.CacheMisses.WithLabelValues("orders").Inc()

	order, err := c.service.Get(id)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	if err := c.store.Put(key, order, config.CacheTTL()); err != nil {
		logger.WithCtx(r.Context()).Warn("order cache write failed", "error", err)
	}

	response.Success(w, order)
}

// Create handles POST /orders: the full placement workflow.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.PlaceOrderInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	order, err := c.service.Place(r.Context(), input)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"message": "order placed",
		"order":   order,
	})
}

// UpdateStatus handles PUT /orders/{id}: the status is the only mutable field.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &input); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message": "order status updated",
		"order":   order,
	})
}

// Feed handles GET /orders/feed: upgrades to a WebSocket subscribed to
// order lifecycle events.
func (c *OrderController) Feed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}

// fail maps service errors onto HTTP statuses.
func (c *OrderController) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInvalidQuantity):
		response.BadRequest(w, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("order request failed", "error", err)
		response.Internal(w)
	}
}
