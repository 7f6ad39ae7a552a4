// Package routes wires controllers to URL paths. Route names follow the
// recurso.acao convention so `route:list` output reads naturally.
package routes

import (
	"net/http"
	"time"

	"github.com/gfmachado/autorevenda/app/controllers"
	"github.com/gfmachado/autorevenda/pkg/metrics"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/response"
	"github.com/gfmachado/autorevenda/pkg/router"
)

// Controllers groups everything RegisterAPI mounts. The server builds
// one of these after wiring repositories and infrastructure.
type Controllers struct {
	Admins     *controllers.AdminsController
	Auth       *controllers.AuthController
	Customers  *controllers.CustomersController
	Vehicles   *controllers.VehiclesController
	Categories *controllers.CategoriesController
	Sales      *controllers.SalesController
	Dashboard  *controllers.DashboardController
	Contact    *controllers.ContactController
	Purchase   *controllers.PurchaseController
	Files      *controllers.FilesController
}

// RegisterAPI mounts every route under /api plus the operational
// endpoints at the root.
func RegisterAPI(r *router.Router, c Controllers) {
	// Brute-force protection on the two credential endpoints only.
	loginLimit := middleware.RateLimit(10, time.Minute)

	api := r.Group("/api")

	api.Post("/adms/login", "adms.login", c.Admins.Login, loginLimit)

	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login, loginLimit)

	me := api.Group("/auth", middleware.Authenticate)
	me.Get("/me", "auth.me", c.Auth.Me)
	me.Put("/me", "auth.me.update", c.Auth.UpdateMe)

	// Account creation is public; everything else needs a token, and the
	// controller enforces admin-or-self per record.
	api.Post("/clientes", "clientes.create", c.Auth.Register)
	clientes := api.Group("/clientes", middleware.Authenticate)
	clientes.Get("", "clientes.index", c.Customers.FindAll, middleware.RequireAdmin)
	clientes.Get("/{id}", "clientes.show", c.Customers.FindByID)
	clientes.Put("/{id}", "clientes.update", c.Customers.Update)
	clientes.Delete("/{id}", "clientes.delete", c.Customers.Delete)

	api.Get("/veiculos", "veiculos.index", c.Vehicles.FindAll)
	api.Get("/veiculos/mais-vendidos", "veiculos.mais-vendidos", c.Vehicles.FindMostSold)
	api.Get("/veiculos/{id}", "veiculos.show", c.Vehicles.FindByID)
	veiculosAdmin := api.Group("/veiculos", middleware.Authenticate, middleware.RequireAdmin)
	veiculosAdmin.Post("", "veiculos.create", c.Vehicles.Create)
	veiculosAdmin.Put("/{id}", "veiculos.update", c.Vehicles.Update)
	veiculosAdmin.Delete("/{id}", "veiculos.delete", c.Vehicles.Delete)

	api.Get("/categorias", "categorias.index", c.Categories.FindAll)
	categoriasAdmin := api.Group("/categorias", middleware.Authenticate, middleware.RequireAdmin)
	categoriasAdmin.Post("", "categorias.create", c.Categories.Create)
	categoriasAdmin.Put("/{id}", "categorias.update", c.Categories.Update)
	categoriasAdmin.Delete("/{id}", "categorias.delete", c.Categories.Delete)

	vendas := api.Group("/vendas", middleware.Authenticate, middleware.RequireAdmin)
	vendas.Get("", "vendas.index", c.Sales.FindAll)
	vendas.Get("/{id}", "vendas.show", c.Sales.FindByID)
	vendas.Post("", "vendas.create", c.Sales.Create)
	vendas.Put("/{id}", "vendas.update", c.Sales.Update)
	vendas.Patch("/{id}/status", "vendas.status", c.Sales.UpdateStatus)
	vendas.Delete("/{id}", "vendas.delete", c.Sales.Delete)

	api.Get("/dashboard/stats", "dashboard.stats", c.Dashboard.GetStats,
		middleware.Authenticate, middleware.RequireAdmin)
	// Websocket authenticates inside the handler (query-param token).
	api.Get("/ws/dashboard", "dashboard.live", c.Dashboard.Live)

	api.Post("/contact", "contact.send", c.Contact.Send)
	api.Post("/purchase/request", "purchase.request", c.Purchase.Request, middleware.Authenticate)

	api.Get("/files/*", "files.show", c.Files.Serve)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})
}
