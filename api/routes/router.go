package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gmml-lab/inventory-backend/api/controllers"
	"github.com/gmml-lab/inventory-backend/api/middleware"
	activitysvc "github.com/gmml-lab/inventory-backend/internal/activity"
	authsvc "github.com/gmml-lab/inventory-backend/internal/auth"
	categoriessvc "github.com/gmml-lab/inventory-backend/internal/categories"
	inventorysvc "github.com/gmml-lab/inventory-backend/internal/inventory"
	locationssvc "github.com/gmml-lab/inventory-backend/internal/locations"
	usersvc "github.com/gmml-lab/inventory-backend/internal/users"
	"github.com/gmml-lab/inventory-backend/pkg/auth/session"
	"github.com/gmml-lab/inventory-backend/pkg/config"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
	"github.com/gmml-lab/inventory-backend/pkg/metrics"
)

// Services bundles every service the router wires to controllers.
type Services struct {
	Auth       authsvc.Service
	Users      usersvc.Service
	Inventory  inventorysvc.Service
	Categories categoriessvc.Service
	Locations  locationssvc.Service
	Activity   activitysvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/callback", controllers.AuthCallback(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/me", controllers.Me(svcs.Users, logg))
		r.Get("/users", controllers.ListUsers(svcs.Users, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(svcs.Inventory, logg))
			r.Post("/", controllers.CreateItem(svcs.Inventory, logg))
			r.Get("/export", controllers.ExportItemsCSV(svcs.Inventory, logg))
			r.Put("/{itemId}", controllers.UpdateItem(svcs.Inventory, logg))
			r.Delete("/{itemId}", controllers.DeleteItem(svcs.Inventory, logg))
		})

		r.Get("/activity", controllers.ActivityFeed(svcs.Activity, logg))

		r.Route("/functions", func(r chi.Router) {
			r.HandleFunc("/manage-categories", controllers.ManageCategories(svcs.Categories, logg))
			r.HandleFunc("/manage-locations", controllers.ManageLocations(svcs.Locations, logg))
			r.Post("/set-user-role", controllers.SetUserRole(svcs.Users, logg))
		})
	})

	return r
}
