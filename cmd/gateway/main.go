package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/internal/gateway"
	"GroceryStore/pkg/kit"
)

func main() {
	service := "gateway"
	dotenvErr := kit.LoadDotEnv()

	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		log.Warn("load .env failed", zap.Error(dotenvErr))
	}

	port := kit.Getenv("PORT", "8080")

	deps := gateway.Deps{
		CatalogURL: kit.Getenv("CATALOG_URL", "http://catalog:8082"),
		CartURL:    kit.Getenv("CART_URL", "http://cart:8083"),
	}

	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:          log,
		Service:      service,
		Registry:     prometheus.NewRegistry(),
		MetricsToken: kit.Getenv("METRICS_TOKEN", ""),
		CORSOrigins:  kit.GetenvList("CORS_ORIGINS"),
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(context.Background(), ":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
