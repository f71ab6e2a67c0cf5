package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/internal/catalog"
	"GroceryStore/pkg/kit"
)

const startupTimeout = 10 * time.Second

func main() {
	service := "catalog"
	dotenvErr := kit.LoadDotEnv()

	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		log.Warn("load .env failed", zap.Error(dotenvErr))
	}

	port := kit.Getenv("PORT", "8082")

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	store, backend := catalog.OpenStore(ctx, kit.Getenv("DATABASE_URL", ""), log)

	if kit.GetenvBool("SEED", true) {
		n, err := catalog.Seed(ctx, store)
		if err != nil {
			cancel()
			log.Fatal("seed products failed", zap.Error(err))
		}
		log.Info("seed finished", zap.Int("inserted", n), zap.String("backend", string(backend)))
	}
	cancel()

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:          log,
		Service:      service,
		Registry:     reg,
		MetricsToken: kit.Getenv("METRICS_TOKEN", ""),
		CORSOrigins:  kit.GetenvList("CORS_ORIGINS"),
		Backend:      backend,
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
