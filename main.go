package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"linserve/config"
	"linserve/db"
	qhttp "linserve/http"
	"linserve/logging"
	"linserve/ml"
	"linserve/monitoring"
)

func main() {
	configPath := flag.String("config", "config.xml", "path to configuration file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logging
	flush := logging.Init(cfg.Log.Level, cfg.Log.File)
	defer flush()

	// 3. Open prediction history store (optional)
	var store *db.Store
	if cfg.Storage.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			log.Fatalf("Failed to create storage dir: %v", err)
		}
		store, err = db.Open(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer store.Close()
		log.Printf("History store opened at %s", cfg.Storage.Path)
	}

	// 4. Load model artifact
	model, err := ml.LoadModel("linear", cfg.Model.Path)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	log.Printf("Model loaded from %s", cfg.Model.Path)

	var predictor ml.Predictor = model
	if cfg.Cache.Size > 0 {
		predictor, err = ml.NewCachedPredictor(model, cfg.Cache.Size)
		if err != nil {
			log.Fatalf("Failed to build prediction cache: %v", err)
		}
	}

	// 5. Build handler and monitoring
	stats := monitoring.NewStats()
	hub := monitoring.NewHub(stats, 0)
	go hub.Start()
	defer hub.Stop()

	handler := qhttp.NewHandler(cfg.Model.InputFeature, predictor, model.Info(), store, stats)

	// 6. Watch the artifact for hot reload
	if cfg.Watch.Enabled {
		watcher, err := ml.WatchArtifact(cfg.Model.Path, "linear", func(fresh *ml.LinearModel) {
			var swapped ml.Predictor = fresh
			if cfg.Cache.Size > 0 {
				if cached, err := ml.NewCachedPredictor(fresh, cfg.Cache.Size); err == nil {
					swapped = cached
				}
			}
			handler.SetPredictor(swapped, fresh.Info())
		})
		if err != nil {
			log.Fatalf("Failed to watch model artifact: %v", err)
		}
		defer watcher.Close()
		log.Printf("Watching %s for artifact changes", cfg.Model.Path)
	}

	// 7. Start HTTP server
	server := qhttp.NewServer(qhttp.DefaultServerConfig(cfg.Addr()), handler, hub)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 8. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if err := server.Stop(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Exiting")
}
