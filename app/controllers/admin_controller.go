package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/response"
)

// AdminController serves the index, health, and cache administration
// endpoints.
type AdminController struct {
	store cache.Store
}

func NewAdminController(store cache.Store) *AdminController {
	return &AdminController{store: store}
}

// Root handles GET /: a small API index.
func (c *AdminController) Root(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"name":    "fastfood-api",
		"version": "1.0",
		"endpoints": map[string]string{
			"products":    "/products",
			"orders":      "/orders",
			"orders_feed": "/orders/feed",
			"health":      "/health",
			"metrics":     "/metrics",
		},
	})
}

// Health handles GET /health.
func (c *AdminController) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}

// ClearCache handles POST /cache/clear. With ?prefix=products or
// ?prefix=orders only that resource is dropped; without it the whole cache
// is flushed.
func (c *AdminController) ClearCache(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	var err error
	if prefix != "" {
		err = c.store.Invalidate(cache.Prefix(prefix))
	} else {
		err = c.store.Flush()
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("cache clear failed", "error", err)
		response.Internal(w)
		return
	}

	logger.WithCtx(r.Context()).Info("cache cleared", "prefix", prefix)
	response.Success(w, map[string]string{"message": "cache cleared"})
}
