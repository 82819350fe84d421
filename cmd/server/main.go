package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"helpy/internal/auth"
	"helpy/internal/auth/gotrue"
	authhandler "helpy/internal/auth/handler"
	authmemory "helpy/internal/auth/memory"
	"helpy/internal/directory/fallback"
	directoryhandler "helpy/internal/directory/handler"
	directorymetrics "helpy/internal/directory/metrics"
	"helpy/internal/directory/models"
	"helpy/internal/directory/service"
	"helpy/internal/directory/store"
	storememory "helpy/internal/directory/store/memory"
	"helpy/internal/directory/store/postgrest"
	"helpy/internal/geo"
	"helpy/internal/geo/geocoder"
	geometrics "helpy/internal/geo/metrics"
	"helpy/internal/platform/config"
	"helpy/internal/platform/health"
	"helpy/internal/platform/httpserver"
	"helpy/internal/platform/logger"
	"helpy/internal/platform/metrics"
	"helpy/internal/platform/middleware"
	"helpy/internal/platform/tracer"
	"helpy/internal/profile"
	profilehandler "helpy/internal/profile/handler"
	"helpy/internal/seeder"
	httptransport "helpy/internal/transport/http"
	"helpy/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing helpy",
		"addr", cfg.Addr,
		"demo_mode", cfg.DemoMode(),
	)

	m := metrics.New()
	dirMetrics := directorymetrics.New()
	geoMetrics := geometrics.New()
	trc := tracer.NewNoop()

	healthHandler := health.New(envName(cfg))

	// Remote store and authenticator: hosted collaborators in production,
	// seeded in-memory backends in demo mode.
	var dataStore store.RemoteStore
	var verifier middleware.TokenVerifier
	var authenticator auth.Authenticator

	if cfg.DemoMode() {
		mem := storememory.New()
		memAuth := authmemory.New([]byte(cfg.JWTSigningKey))

		if err := seeder.New(mem, memAuth, log).SeedAll(context.Background()); err != nil {
			log.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}

		dataStore = mem
		verifier = memAuth
		authenticator = memAuth
	} else {
		dataStore = postgrest.New(cfg.RemoteStoreURL, cfg.RemoteStoreKey, cfg.RemoteTimeout)
		remoteAuth := gotrue.New(cfg.RemoteStoreURL, cfg.RemoteStoreKey)
		verifier = remoteAuth
		authenticator = remoteAuth
		healthHandler.RegisterCheck("remote_store", pingCheck(cfg.RemoteStoreURL))
	}

	breaker := circuit.New("remote-store",
		circuit.WithFailureThreshold(cfg.BreakerFailureThreshold),
		circuit.WithSuccessThreshold(cfg.BreakerSuccessThreshold),
		circuit.WithProbeCooldown(cfg.BreakerProbeCooldown),
	)

	artisans := service.New(
		models.CollectionArtisans,
		dataStore,
		fallback.Artisans,
		store.Query{OrderField: "nom"},
		log,
		service.WithSearchFields(models.Artisan.SearchFields),
		service.WithBreaker[models.Artisan](breaker),
		service.WithMetrics[models.Artisan](dirMetrics),
		service.WithTracer[models.Artisan](trc),
	)
	posts := service.New(
		models.CollectionPosts,
		dataStore,
		fallback.Posts,
		store.Query{OrderField: "created_at", OrderDesc: true},
		log,
		service.WithBreaker[models.Post](breaker),
		service.WithMetrics[models.Post](dirMetrics),
		service.WithTracer[models.Post](trc),
	)

	var geocoderClient geo.Geocoder
	if cfg.GeocoderURL != "" {
		geocoderClient = geocoder.New(cfg.GeocoderURL, cfg.GeocoderKey,
			geocoder.WithTimeout(cfg.GeocoderTimeout),
		)
		healthHandler.RegisterCheck("geocoder", pingCheck(cfg.GeocoderURL))
	} else {
		// Without a geocoder every address resolves to the default position.
		geocoderClient = geo.GeocoderFunc(func(context.Context, string) ([]geo.Candidate, error) {
			return nil, nil
		})
	}
	resolver := geo.NewResolver(geocoderClient, log,
		geo.WithCacheCapacity(cfg.GeocodeCacheCap),
		geo.WithMetrics(geoMetrics),
		geo.WithTracer(trc),
	)

	profiles := profile.NewService(dataStore, fallback.Profile, log, m)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:    log,
		Metrics:   m,
		Health:    healthHandler,
		Directory: directoryhandler.New(artisans, posts, resolver, log),
		Auth:      authhandler.New(authenticator, log, m),
		Profile:   profilehandler.New(profiles, log),
		Verifier:  verifier,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func envName(cfg config.Server) string {
	if cfg.DemoMode() {
		return "demo"
	}
	return "production"
}

// pingCheck reports whether the collaborator's base URL accepts connections.
func pingCheck(baseURL string) health.CheckFunc {
	return func() error {
		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(baseURL)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		return nil
	}
}
