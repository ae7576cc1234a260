package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/api/handler"
	apimw "github.com/ekaradag/shopsync/internal/api/middleware"
	"github.com/ekaradag/shopsync/internal/service"
)

// Services bundles everything the router needs so NewRouter does not
// grow a parameter per feature.
type Services struct {
	Campaigns     *service.CampaignService
	Subscriptions *service.SubscriptionService
	Orders        *service.OrderService
	Sale          *service.SaleService
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	svcs Services,
	adminToken string,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	ch := handler.NewCampaignHandler(svcs.Campaigns, logger)
	sh := handler.NewSubscriptionHandler(svcs.Subscriptions, logger)
	oh := handler.NewOrderHandler(svcs.Orders, logger)
	slh := handler.NewSaleHandler(svcs.Sale, logger)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Storefront surface, called by the service worker and the page.
	r.Post("/save-subscription", sh.Save)
	r.Post("/update-preferences", sh.UpdatePreferences)
	r.Get("/get-preferences", sh.GetPreferences)
	r.Post("/delete-subscription", sh.Delete)
	r.Post("/campaign-events", ch.RecordEvent)
	r.Post("/orders", oh.Create)
	r.Get("/sale-status", slh.Status)

	// Admin surface behind the bearer token.
	r.Group(func(r chi.Router) {
		r.Use(apimw.AdminAuth(adminToken))
		r.Post("/send-notification", ch.Send)
		r.Post("/start-sale", slh.Start)
		r.Post("/end-sale", slh.End)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/campaigns", ch.List)
		r.Get("/campaigns/{id}", ch.GetByID)
	})

	return r
}
