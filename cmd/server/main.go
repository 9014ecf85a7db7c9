package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/studyhub/backend/internal/config"
	"github.com/studyhub/backend/internal/database"
	"github.com/studyhub/backend/internal/logging"
	"github.com/studyhub/backend/internal/metrics"
	"github.com/studyhub/backend/internal/middleware"
	"github.com/studyhub/backend/internal/notes"
	"github.com/studyhub/backend/internal/practice"
	"github.com/studyhub/backend/internal/solver"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Practice engine
	catalog, err := practice.LoadCatalog(cfg.Practice.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	registry := practice.NewRegistry(catalog, practice.RegistryConfig{
		QuestionSeconds: cfg.Practice.QuestionSeconds,
		TickInterval:    cfg.Practice.TickInterval,
		IdleTTL:         cfg.Practice.SessionIdleTTL,
	}, m, logger)
	go registry.Run(ctx, cfg.Practice.SessionIdleTTL/2)

	// Notes
	noteStore, closeStore, err := newNoteStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Solver
	solve, err := newSolver(cfg)
	if err != nil {
		return err
	}
	logger.Info("[server] solver backend selected", zap.String("backend", solve.Name()))

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger, m))
	api := r.PathPrefix("/api/v1").Subrouter()

	practice.NewHandler(registry, logger).Register(api.PathPrefix("/practice").Subrouter())
	notes.NewHandler(noteStore, m, logger).Register(api)

	limited := api.PathPrefix("").Subrouter()
	limited.Use(middleware.NewRateLimiter(cfg.Solver.RatePerMinute, 5).Middleware(logger))
	solver.NewHandler(solve, cfg.Solver.Timeout, m, logger).Register(limited)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.Origins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: c.Handler(r),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[server] starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	registry.CloseAll()
	return nil
}

func newNoteStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (notes.Store, func(), error) {
	if cfg.URL == "" {
		logger.Info("[server] notes kept in memory")
		return notes.NewMemoryStore(notes.SeedNotes...), func() {}, nil
	}

	db, err := database.Connect(cfg.URL, cfg.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := notes.NewPostgresStore(db)
	if err := store.Seed(ctx, notes.SeedNotes); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("[server] notes stored in postgres")
	return store, func() { db.Close() }, nil
}

func newSolver(cfg *config.Config) (solver.Solver, error) {
	switch cfg.Solver.Backend {
	case "http":
		return solver.NewHTTPSolver(cfg.Solver.URL, cfg.Solver.Timeout), nil
	case "anthropic":
		return solver.NewAnthropicSolver(cfg.Anthropic.APIKey, cfg.Solver.AnthropicModel), nil
	case "stub":
		return solver.StubSolver{}, nil
	default:
		return nil, fmt.Errorf("unknown solver backend %q", cfg.Solver.Backend)
	}
}
