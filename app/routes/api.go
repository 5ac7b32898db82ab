// Package routes wires controllers onto the router.
package routes

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/fastfood-api/app/controllers"
	"github.com/shashiranjanraj/fastfood-api/config"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/middleware"
	"github.com/shashiranjanraj/fastfood-api/pkg/response"
	"github.com/shashiranjanraj/fastfood-api/pkg/router"
)

// Deps carries everything RegisterAPI needs to mount the routes.
type Deps struct {
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Admin    *controllers.AdminController
	APIKey   string
	// StorageRoot is the local disk directory served under /storage/.
	// Defaults to STORAGE_LOCAL_ROOT.
	StorageRoot string
}

// RegisterAPI mounts every route. Reads are public; every mutation sits
// behind the shared-secret gate, and JSON-body mutations additionally
// require the right Content-Type.
func RegisterAPI(r *router.Router, d Deps) {
	secret := middleware.APIKey(d.APIKey)
	jsonOnly := middleware.RequireJSON

	r.Get("/", "root", d.Admin.Root)
	r.Get("/health", "health", d.Admin.Health)
	r.Get("/metrics", "metrics", metrics.Handler())

	r.Get("/products", "products.index", d.Products.Index)
	r.Post("/products", "products.create", d.Products.Create, secret, jsonOnly)
	// Static paths before the {id} route so chi never shadows them.
	r.Post("/products/upload-image", "products.upload_image", d.Products.UploadImage, secret)
	r.Delete("/products/delete-image", "products.delete_image", d.Products.DeleteImage, secret, jsonOnly)
	r.Get("/products/{id}", "products.show", d.Products.Show)
	r.Put("/products/{id}", "products.update", d.Products.Update, secret, jsonOnly)
	r.Delete("/products/{id}", "products.delete", d.Products.Delete, secret)

	r.Get("/orders", "orders.index", d.Orders.Index)
	r.Get("/orders/feed", "orders.feed", d.Orders.Feed)
	r.Post("/orders", "orders.create", d.Orders.Create, secret, jsonOnly)
	r.Get("/orders/{id}", "orders.show", d.Orders.Show)
	r.Put("/orders/{id}", "orders.update", d.Orders.UpdateStatus, secret, jsonOnly)

	r.Post("/cache/clear", "cache.clear", d.Admin.ClearCache, secret)

	// Images stored on the local disk are public under /storage/, matching
	// the URLs StoreImage hands out. Files only, no directory listings.
	root := d.StorageRoot
	if root == "" {
		root = config.StorageLocalRoot()
	}
	files := http.StripPrefix("/storage/", http.FileServer(http.Dir(root)))
	r.Get("/storage/*", "storage.serve", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			response.NotFound(w, "file not found")
			return
		}
		files.ServeHTTP(w, req)
	})
}
