package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campstock/internal/api"
	"campstock/internal/auth"
	"campstock/internal/config"
	"campstock/internal/database"
	"campstock/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// .env is optional; environment wins over the config file
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	db, err := database.Open(cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	adminPassword := os.Getenv("CAMPSTOCK_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme-on-first-login"
	}
	adminHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	if err := database.SeedDefaults(db, "admin@campstock.local", adminHash); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenExpiry)
	monitor := monitoring.NewMonitor()

	server := api.NewServer(db, tokens, monitor, cfg.Server.UploadDir)

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Server.MetricsPort, cfg.Metrics.Path, monitor)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, path string, monitor *monitoring.Monitor) {
	if path == "" {
		path = "/metrics"
	}

	router := gin.New()
	router.GET(path, gin.WrapH(promhttp.HandlerFor(monitor.Registry(), promhttp.HandlerOpts{})))

	log.Printf("Starting metrics server on port %d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), router); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
