package router

import (
	"net/http"

	"brewpos/internal/auth"
	"brewpos/internal/handler"
	"brewpos/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Products  *handler.ProductHandler
	Carts     *handler.CartHandler
	Orders    *handler.OrderHandler
	CashFlows *handler.CashFlowHandler
	Reports   *handler.ReportHandler
	Settings  *handler.SettingsHandler
	Staff     *handler.StaffHandler
}

// New creates the HTTP router with all routes and middleware configured.
func New(h Handlers, tokens middleware.TokenParser, staff middleware.StaffDirectory, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> CORS -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Authenticate(tokens, staff, logger))

	adminOnly := middleware.RequireRole(logger, auth.RoleAdmin)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/barcode/{barcode}", h.Products.GetByBarcode)
			r.Get("/{id}", h.Products.GetByID)
			r.With(adminOnly).Post("/", h.Products.Create)
			r.With(adminOnly).Put("/{id}", h.Products.Update)
			r.With(adminOnly).Delete("/{id}", h.Products.Deactivate)
		})

		r.Get("/categories", h.Products.Categories)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.Carts.Open)
			r.Get("/{id}", h.Carts.Get)
			r.Delete("/{id}", h.Carts.Close)
			r.Post("/{id}/lines", h.Carts.AddLine)
			r.Post("/{id}/scan", h.Carts.Scan)
			r.Patch("/{id}/lines/{lineId}", h.Carts.UpdateLine)
			r.Delete("/{id}/lines/{lineId}", h.Carts.RemoveLine)
			r.Post("/{id}/clear", h.Carts.Clear)
			r.Post("/{id}/checkout", h.Orders.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.GetByID)
			r.Patch("/{id}/status", h.Orders.UpdateStatus)
		})

		r.Route("/cashflows", func(r chi.Router) {
			r.Get("/", h.CashFlows.List)
			r.Get("/summary", h.CashFlows.Summary)
			r.Post("/", h.CashFlows.Create)
			r.With(adminOnly).Put("/{id}", h.CashFlows.Update)
			r.With(adminOnly).Delete("/{id}", h.CashFlows.Delete)
		})

		r.Get("/reports/summary", h.Reports.Summary)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.Settings.Get)
			r.With(adminOnly).Put("/", h.Settings.Update)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.Staff.List)
			r.Post("/", h.Staff.Create)
			r.Get("/{id}", h.Staff.GetByID)
			r.Put("/{id}", h.Staff.Update)
			r.Patch("/{id}/active", h.Staff.SetActive)
			r.Delete("/{id}", h.Staff.Delete)
		})
	})

	return r
}
