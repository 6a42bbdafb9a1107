package main

import (
	"context"
	"flag"
	"log"
	"os"

	"dashboard-pipeline/internal/api"
	"dashboard-pipeline/internal/app"
	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/pkg/router"
)

// @title Dashboard Data Pipeline API
// @version 1.0
// @description Fetch, validate, preview and transform dashboard data sources.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfgPath := flag.String("config", os.Getenv("PIPELINE_CONFIG"), "path to a JSON config file (env PIPELINE_CONFIG)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*cfgPath, os.Environ())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Init store, metrics and handlers
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer a.Close()

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r, a.Handler, a.Metrics)

	// Start server
	r.Start(cfg.Addr)
}
