package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/internal/cart"
	"GroceryStore/pkg/kit"
)

func main() {
	service := "cart"
	dotenvErr := kit.LoadDotEnv()

	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		log.Warn("load .env failed", zap.Error(dotenvErr))
	}

	port := kit.Getenv("PORT", "8083")

	s := &cart.Server{Store: cart.NewStore(), Log: log}
	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:                log,
		Service:            service,
		Registry:           prometheus.NewRegistry(),
		MetricsToken:       kit.Getenv("METRICS_TOKEN", ""),
		CORSOrigins:        kit.GetenvList("CORS_ORIGINS"),
		MutationsPerMinute: kit.GetenvInt("CART_RATE_LIMIT", 0),
		TrustedProxies:     kit.GetenvList("CART_TRUSTED_PROXIES"),
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
