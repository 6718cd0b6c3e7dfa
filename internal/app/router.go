package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/dashboard"
	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	"github.com/nexstock/nexstock-console/internal/masterdata/vendors"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/observability"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/procurement"
	"github.com/nexstock/nexstock-console/internal/rbac"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/users"
	"github.com/nexstock/nexstock-console/internal/view"
	"github.com/nexstock/nexstock-console/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	Pages          *page.Builder
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Authenticator  auth.Authenticator
	Metrics        *observability.Metrics

	AuthHandler        *auth.Handler
	DashboardHandler   *dashboard.Handler
	WarehouseHandler   *warehouses.Handler
	InventoryHandler   *inventory.Handler
	ProductHandler     *products.Handler
	VendorHandler      *vendors.Handler
	ProcurementHandler *procurement.Handler
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	mwCfg := MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Authenticator:  params.Authenticator,
		Metrics:        params.Metrics,
	}
	for _, mw := range BaseStack(mwCfg) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	guard := rbac.Guard{
		Templates: params.Templates,
		Logger:    params.Logger,
		Denied:    http.HandlerFunc(params.Pages.NotAvailable),
	}

	sessionStack := SessionStack(mwCfg)
	r.Group(func(r chi.Router) {
		for _, mw := range sessionStack {
			r.Use(mw)
		}

		r.Group(func(r chi.Router) {
			r.Use(guard.PublicOnly)
			params.AuthHandler.MountPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.Protected)
			params.AuthHandler.MountProtectedRoutes(r)
			params.DashboardHandler.MountRoutes(r)
			r.Route("/warehouses", params.WarehouseHandler.MountRoutes)
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
			r.Route("/products", params.ProductHandler.MountRoutes)
			r.Route("/vendors", params.VendorHandler.MountRoutes)
			r.Route("/purchase-orders", params.ProcurementHandler.MountRoutes)
			users.NewHandler(params.Pages, guard).MountRoutes(r)
		})
	})

	notFound := make([]func(http.Handler) http.Handler, 0, len(sessionStack)+1)
	notFound = append(append(notFound, sessionStack...), guard.Protected)
	r.NotFound(chi.Chain(notFound...).HandlerFunc(params.Pages.NotFound).ServeHTTP)

	return r
}

// staticCacheHandler caches static assets in the browser for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
