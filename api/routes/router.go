package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openshelf/picklist-backend/api/controllers"
	"github.com/openshelf/picklist-backend/api/middleware"
	"github.com/openshelf/picklist-backend/internal/catalog"
	"github.com/openshelf/picklist-backend/internal/picklists"
	"github.com/openshelf/picklist-backend/internal/transfer"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	pickListService picklists.Service,
	transferService transfer.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		r.Route("/areas", func(r chi.Router) {
			r.Get("/", controllers.ListAreas(catalogService, logg))
			r.Post("/", controllers.CreateArea(catalogService, logg))
			r.Get("/{areaID}", controllers.GetArea(catalogService, logg))
			r.Patch("/{areaID}", controllers.UpdateArea(catalogService, logg))
			r.Delete("/{areaID}", controllers.DeleteArea(catalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(catalogService, logg))
			r.Post("/", controllers.CreateCategory(catalogService, logg))
			r.Get("/{categoryID}", controllers.GetCategory(catalogService, logg))
			r.Patch("/{categoryID}", controllers.RenameCategory(catalogService, logg))
			r.Delete("/{categoryID}", controllers.DeleteCategory(catalogService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/{productID}", controllers.GetProduct(catalogService, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(catalogService, logg))
			r.Post("/{productID}/archive", controllers.ArchiveProduct(catalogService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Route("/pick-lists", func(r chi.Router) {
			r.Get("/", controllers.ListPickLists(pickListService, logg))
			r.Post("/", controllers.CreatePickList(pickListService, logg))
			r.Get("/{listID}", controllers.GetPickList(pickListService, logg))
			r.Patch("/{listID}", controllers.UpdatePickList(pickListService, logg))
			r.Post("/{listID}/complete", controllers.CompletePickList(pickListService, logg))
			r.Delete("/{listID}", controllers.DeletePickList(pickListService, logg))
			r.Post("/{listID}/items", controllers.AddPickItem(pickListService, logg))
		})

		r.Route("/pick-items", func(r chi.Router) {
			r.Patch("/{itemID}/quantity", controllers.AdjustPickItemQuantity(pickListService, logg))
			r.Patch("/{itemID}/status", controllers.SetPickItemStatus(pickListService, logg))
			r.Delete("/{itemID}", controllers.RemovePickItem(pickListService, logg))
		})

		r.Route("/transfer", func(r chi.Router) {
			r.Get("/export", controllers.ExportEntities(transferService, logg))
			r.Post("/import", controllers.ImportEntities(transferService, cfg, logg))
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", controllers.ListTransferLogs(transferService, logg))
			r.Get("/{logID}", controllers.GetTransferLog(transferService, logg))
			r.Get("/{logID}/download", controllers.DownloadTransferLog(transferService, logg))
		})
	})

	return r
}
