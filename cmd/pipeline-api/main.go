package main

import (
	"context"
	"flag"
	"log"
	"os"

	"dashboard-pipeline/internal/api"
	"dashboard-pipeline/internal/app"
	"dashboard-pipeline/internal/config"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("PIPELINE_CONFIG"), "path to a JSON config file (env PIPELINE_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath, os.Environ())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer a.Close()

	r := api.NewRouter(a.Handler, a.Metrics)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("❌ server: %v", err)
	}
}
