package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"

	"carburante/internal/carburante"
	"carburante/internal/geoip"
	"carburante/internal/searchlog"
	"carburante/pkg/api"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", envInt("CARBURANTE_PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envString("CARBURANTE_DB", "carburante.db"), "Path to the search log database file")
	flag.Parse()

	ctx := context.Background()

	logger := httplog.NewLogger("carburante", httplog.Options{
		JSON:            false,
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	client := api.NewClient()
	registryURL := os.Getenv("CARBURANTE_REGISTRY_URL")
	pricesURL := os.Getenv("CARBURANTE_PRICES_URL")
	if registryURL != "" && pricesURL != "" {
		client = api.NewClientWithURLs(registryURL, pricesURL)
	}

	svc := carburante.NewService(client, envDuration("CARBURANTE_CACHE_TTL", 0), logger.Logger)

	store, err := searchlog.New(ctx, *dbPath, logger.Logger)
	if err != nil {
		log.Fatalf("Error initializing search log: %v", err)
	}
	defer store.Close()

	srv := &server{
		svc:          svc,
		store:        store,
		locator:      geoip.NewClient(),
		geocodeCache: cache.New(30*time.Minute, 90*time.Minute),
		log:          logger.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(20, time.Minute))

	r.Get("/health", srv.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/nearby", srv.handleNearby)
		r.Get("/stations", srv.handleStations)
		r.Get("/regional/{region}", srv.handleRegional)
		r.Get("/national", srv.handleNational)
		r.Get("/fuel-price", srv.handleFuelPrice)
		r.Get("/popular", srv.handlePopular)
	})

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting server", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
