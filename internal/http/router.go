package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/storefront-crm/docs"
	"github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-crm/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.With(rl.Middleware("login", rl.LoginLimit)).Post("/login", handlers.LoginHandler)
	r.Post("/register", handlers.RegisterHandler)
	r.Post("/refresh", handlers.RefreshHandler)
	r.Post("/logout", handlers.LogoutHandler)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", handlers.GetCustomersHandler)
		r.Get("/export", handlers.ExportCustomersHandler)
		r.Get("/{id}", handlers.GetCustomerByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Post("/", handlers.CreateCustomerHandler)
			r.Post("/import", handlers.ImportCustomersHandler)
			r.Post("/bulk/delete", handlers.BulkDeleteCustomersHandler)
			r.Post("/bulk/status", handlers.BulkStatusCustomersHandler)
			r.Put("/{id}", handlers.UpdateCustomerHandler)
			r.Patch("/{id}", handlers.PatchCustomerHandler)
			r.Delete("/{id}", handlers.DeleteCustomerHandler)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.GetProductsHandler)
		r.Get("/categories", handlers.GetCategoriesHandler)
		r.Get("/{id}", handlers.GetProductByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Post("/", handlers.CreateProductHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Patch("/{id}", handlers.PatchProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
		})
	})
	r.Get("/catalog/search", handlers.SearchCatalogHandler)

	r.Group(func(r chi.Router) {
		r.Use(CartSession)

		r.Get("/cart", handlers.GetCartHandler)
		r.Delete("/cart", handlers.ClearCartHandler)
		r.Post("/cart/items", handlers.AddCartItemHandler)
		r.Patch("/cart/items/{product_id}", handlers.UpdateCartItemHandler)
		r.Delete("/cart/items/{product_id}", handlers.RemoveCartItemHandler)
		r.Post("/cart/promo", handlers.ApplyPromoHandler)
		r.Delete("/cart/promo", handlers.RemovePromoHandler)

		r.Get("/wishlist", handlers.GetWishlistHandler)
		r.Delete("/wishlist", handlers.ClearWishlistHandler)
		r.Post("/wishlist/items", handlers.AddWishlistItemHandler)
		r.Delete("/wishlist/items/{product_id}", handlers.RemoveWishlistItemHandler)
		r.Post("/wishlist/items/{product_id}/move-to-cart", handlers.MoveToCartHandler)

		r.With(rl.Middleware("checkout", rl.CheckoutLimit)).Post("/checkout", handlers.CheckoutHandler)
	})

	r.Get("/orders/{order_id}", handlers.GetOrderHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)
		r.Get("/orders", handlers.GetOrdersHandler)
		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
		r.With(RequireRole(models.RoleAdmin)).Post("/admin/users", handlers.RegisterAsAdminHandler)
	})

	return r
}
