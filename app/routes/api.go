// Package routes registers every HTTP endpoint onto the named router.
package routes

import (
	"net/http"

	"github.com/printipid/printipid/app/controllers"
	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/rbac"
	"github.com/printipid/printipid/pkg/router"
)

// Controllers carries the wired controller instances built at boot.
type Controllers struct {
	Auth    *controllers.AuthController
	Orders  *controllers.OrderController
	Admin   *controllers.AdminController
	Catalog *controllers.CatalogController
	Stats   *controllers.StatsController
	GraphQL http.HandlerFunc
}

// RegisterAPI mounts the full /api surface.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// ─── Public ──────────────────────────────────────────────────────────
	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login)

	api.Get("/services", "catalog.services", c.Catalog.Services)
	api.Get("/payment-methods", "catalog.payment_methods", c.Catalog.PaymentMethods)

	// Order submission works with or without an account; the SSE stream
	// accepts either a bearer token or a guest tracking token.
	api.Post("/orders", "orders.submit", c.Orders.Submit, middleware.OptionalAuth)
	api.Get("/orders/track/{token}", "orders.track", c.Orders.Track)
	api.Get("/orders/{id}/events", "orders.events", c.Orders.Events, middleware.OptionalAuth)

	// ─── Authenticated customers ─────────────────────────────────────────
	protected := api.Group("", middleware.Auth)
	protected.Get("/profile", "profile.show", c.Auth.Me)
	protected.Put("/profile", "profile.update", c.Auth.UpdateMe)

	protected.Get("/orders", "orders.mine", c.Orders.Mine)
	protected.Get("/orders/{id}", "orders.show", c.Orders.Show)
	protected.Post("/orders/{id}/receipt", "orders.receipt", c.Orders.SubmitReceipt)

	protected.Get("/stats", "stats.mine", c.Stats.Mine)

	// ─── Admin ───────────────────────────────────────────────────────────
	admin := api.Group("/admin", middleware.Auth, rbac.HasRole(models.RoleAdmin))

	admin.Get("/orders", "admin.orders", c.Admin.Orders)
	admin.Get("/orders/feed", "admin.orders.feed", c.Admin.Feed)
	admin.Patch("/orders/{id}/status", "admin.orders.status", c.Admin.UpdateStatus)
	admin.Post("/orders/{id}/payment/verify", "admin.orders.payment.verify", c.Admin.VerifyPayment)
	admin.Post("/orders/{id}/payment/reject", "admin.orders.payment.reject", c.Admin.RejectPayment)
	admin.Delete("/orders/{id}", "admin.orders.delete", c.Admin.DeleteOrder)

	admin.Get("/users", "admin.users", c.Admin.Users)
	admin.Patch("/users/{id}/role", "admin.users.role", c.Admin.SetRole)

	admin.Get("/stats", "admin.stats", c.Stats.Admin)

	admin.Get("/services", "admin.services", c.Catalog.AllServices)
	admin.Post("/services", "admin.services.create", c.Catalog.CreateService)
	admin.Put("/services/{id}", "admin.services.update", c.Catalog.UpdateService)
	admin.Delete("/services/{id}", "admin.services.delete", c.Catalog.DeleteService)

	admin.Get("/payment-methods", "admin.payment_methods", c.Catalog.AllPaymentMethods)
	admin.Put("/payment-methods/{id}", "admin.payment_methods.update", c.Catalog.UpdatePaymentMethod)
	admin.Post("/payment-methods/gcash/qr", "admin.payment_methods.qr", c.Catalog.UploadGCashQR)

	if c.GraphQL != nil {
		admin.Post("/graphql", "admin.graphql", c.GraphQL)
	}
}
