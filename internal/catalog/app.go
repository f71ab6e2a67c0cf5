package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsToken string
	CORSOrigins  []string

	// Backend is exported as catalog_store_backend when Registry is set.
	Backend Backend
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	kit.SetupMetrics(r, kit.MetricsDeps{
		Service:  deps.Service,
		Registry: deps.Registry,
		Token:    deps.MetricsToken,
	})
	registerBackend(deps)

	r.Mount("/", s.Routes())
	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS(deps.CORSOrigins))
}

func registerBackend(deps HTTPDeps) {
	if deps.Registry == nil || deps.Backend == "" {
		return
	}

	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_store_backend",
		Help: "Catalog backend selected at startup",
	}, []string{"backend"})
	deps.Registry.MustRegister(g)
	g.WithLabelValues(string(deps.Backend)).Set(1)
}
