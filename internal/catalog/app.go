package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MiniCatalog/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	AllowedOrigins []string

	// WriteLimit caps POST/PUT/DELETE per client IP within WriteWindow.
	// Zero disables the limit.
	WriteLimit  int
	WriteWindow time.Duration

	// TrustForwarded keys the limit on X-Forwarded-For and friends. Only set
	// it behind a proxy that overwrites those headers.
	TrustForwarded bool
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	setupMiddleware(r, s, deps)
	setupRoutes(r, s, deps, metricsOn)

	return r
}

func setupMiddleware(r *chi.Mux, s *Server, deps HTTPDeps) {
	r.Use(kit.RequestID)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.CORS(deps.AllowedOrigins))

	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry, deps.Service)
	r.Use(metrics.Middleware(kit.ChiRoutePatternOrPath))

	deps.Registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "catalog_products",
			Help:        "Products currently held by the store",
			ConstLabels: prometheus.Labels{"service": deps.Service},
		},
		func() float64 { return float64(s.Store.Len()) },
	))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps, metricsOn bool) {
	var writes []func(http.Handler) http.Handler
	if deps.WriteLimit > 0 {
		if deps.TrustForwarded {
			writes = append(writes, chimw.RealIP)
		}
		writes = append(writes, kit.NewIPRateLimiter(deps.WriteLimit, deps.WriteWindow).Middleware)
	}

	r.Route("/api/products", func(rr chi.Router) {
		rr.Get("/", s.list)
		rr.Get("/{id}", s.get)

		rr.Group(func(wr chi.Router) {
			wr.Use(writes...)
			wr.Post("/", s.create)
			wr.Put("/edit", s.edit)
			wr.Delete("/{id}", s.delete)
		})
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.ready)

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
