package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MiniCatalog/internal/catalog"
	"MiniCatalog/internal/config"
	"MiniCatalog/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded", zap.Stringer("config", cfg))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	images := catalog.Picsum{BaseURL: cfg.Placeholder.BaseURL, Max: cfg.Placeholder.Max}
	s := &catalog.Server{Store: catalog.NewStore(images), Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		AllowedOrigins: cfg.Origins(),
		WriteLimit:     cfg.RateLimit.Writes,
		WriteWindow:    cfg.RateLimit.Window,
		TrustForwarded: cfg.RateLimit.TrustForwarded,
	})

	err = kit.RunHTTPServer(context.Background(), kit.ServerConfig{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, h, log)
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
