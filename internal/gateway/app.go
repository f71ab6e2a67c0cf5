package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

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
}

type Deps struct {
	CatalogURL string
	CartURL    string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	deps.CatalogURL = strings.TrimRight(deps.CatalogURL, "/")
	deps.CartURL = strings.TrimRight(deps.CartURL, "/")

	catalogProxy, err := NewReverseProxy(deps.CatalogURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("catalog proxy: %w", err)
	}
	cartProxy, err := NewReverseProxy(deps.CartURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("cart proxy: %w", err)
	}
	catalogProxy.ModifyResponse = stripCORS
	cartProxy.ModifyResponse = stripCORS

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(httpDeps.Log))
	r.Use(kit.CORS(httpDeps.CORSOrigins))

	kit.SetupMetrics(r, kit.MetricsDeps{
		Service:  httpDeps.Service,
		Registry: httpDeps.Registry,
		Token:    httpDeps.MetricsToken,
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Handle("/api/products", catalogProxy)
	r.Handle("/api/products/*", catalogProxy)

	r.Handle("/api/cart", cartProxy)
	r.Handle("/api/cart/*", cartProxy)

	return r, nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	upstreams := []struct{ name, url string }{
		{"catalog", deps.CatalogURL + "/readyz"},
		{"cart", deps.CartURL + "/readyz"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, u := range upstreams {
			if err := checkReady(ctx, u.url); err != nil {
				if log != nil {
					log.Warn("readyz failed", zap.String("upstream", u.name), zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, u.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
