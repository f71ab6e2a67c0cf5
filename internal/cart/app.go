package cart

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/pkg/kit"
)

const rateWindow = time.Minute

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsToken string
	CORSOrigins  []string

	// MutationsPerMinute limits add/remove/checkout per client IP; zero disables.
	MutationsPerMinute int
	// TrustedProxies are peer IPs (the gateway) whose X-Forwarded-For is believed.
	TrustedProxies     []string
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS(deps.CORSOrigins))

	kit.SetupMetrics(r, kit.MetricsDeps{
		Service:  deps.Service,
		Registry: deps.Registry,
		Token:    deps.MetricsToken,
	})
	registerCartMetrics(s, deps.Registry)

	limiter := kit.NewIPRateLimiter(deps.MutationsPerMinute, rateWindow, deps.TrustedProxies...)

	r.Mount("/", s.Routes(limiter.Middleware))
	return r
}

func registerCartMetrics(s *Server, reg *prometheus.Registry) {
	if reg == nil {
		return
	}

	if s.Checkouts == nil {
		s.Checkouts = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_checkouts_total",
			Help: "Completed cart checkouts",
		})
		reg.MustRegister(s.Checkouts)
	}

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "cart_entries",
		Help: "Entries currently held across all carts",
	}, func() float64 { return float64(s.Store.Entries()) }))
}
