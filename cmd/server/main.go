// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/curator/docs" // Import generated swagger docs
	"github.com/tomtom215/curator/internal/api"
	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/authz"
	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/evaluation"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend/storage"
	"github.com/tomtom215/curator/internal/supervisor"
	"github.com/tomtom215/curator/internal/supervisor/services"
)

const idleTimeout = 60 * time.Second

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("badger", cfg.Badger.Enabled).
		Bool("nats", cfg.NATS.Enabled).
		Bool("synchronous_events", cfg.Events.Synchronous).
		Msg("Starting Curator with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.SeedDemoData {
		if _, err := db.SeedDemoData(ctx); err != nil {
			// Close database before fatal exit to ensure defer runs
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	vectors := content.NewService(db, db, content.Config{
		Snapshot: content.SnapshotOptions{
			VocabularySize: cfg.Vectorizer.VocabularySize,
			MinTokenLength: cfg.Vectorizer.MinTokenLength,
			MaxTokenLength: cfg.Vectorizer.MaxTokenLength,
		},
		VocabularyTTL:  cfg.Vectorizer.VocabularyTTL,
		StaleAfter:     cfg.Vectorizer.StaleAfter,
		ItemsPerSecond: cfg.Maintenance.ItemsPerSecond,
	}, logging.WithComponent("content"))

	interactionLog := interactions.NewLog(db, logging.WithComponent("interactions"))

	profiles := profile.NewStore(db, db, db, profile.Config{
		RecomputeWindow: cfg.Profile.RecomputeWindow,
		RecomputeAfter:  cfg.Profile.RecomputeAfter,
		LockStripes:     cfg.Profile.LockStripes,
		ItemsPerSecond:  cfg.Maintenance.ItemsPerSecond,
	}, logging.WithComponent("profile"))

	var precomputed *storage.Store
	if cfg.Badger.Enabled {
		precomputed, err = storage.Open(storage.Options{
			Path:     cfg.Badger.Path,
			InMemory: cfg.Badger.InMemory,
		}, logging.WithComponent("precomputed"))
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open precomputed store")
		}
		defer func() {
			if err := precomputed.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing precomputed store")
			}
		}()
		logging.Info().Str("path", cfg.Badger.Path).Bool("in_memory", cfg.Badger.InMemory).Msg("Precomputed store opened")
	}

	engine, err := initEngine(cfg, db, vectors, profiles, interactionLog, precomputed, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	evaluator := evaluation.NewEvaluator(db, db, cfg.Evaluation.CacheTTL, logging.WithComponent("evaluation"))

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	eventComps, err := initEvents(ctx, cfg, interactionLog, profiles, tree, logging.WithComponent("events"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event pipeline")
	}
	defer func() {
		if err := eventComps.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event pipeline")
		}
	}()

	// Admin routes exist only when tokens can be verified.
	var guard *api.AdminGuard
	if cfg.Security.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
			PolicyPath: cfg.Security.CasbinPolicyPath,
			AdminRoles: cfg.Security.AdminRoles,
			CacheTTL:   authz.DefaultEnforcerConfig().CacheTTL,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
		}
		guard = &api.AdminGuard{
			Authn: auth.NewMiddleware(jwtManager),
			Authz: authz.NewMiddleware(enforcer),
		}
		logging.Info().Strs("admin_roles", cfg.Security.AdminRoles).Msg("Admin API enabled")
	} else {
		logging.Warn().Msg("JWT_SECRET not set, admin API disabled")
	}

	handler := api.NewHandler(api.HandlerDeps{
		Engine:       engine,
		Interactions: interactionLog,
		Vectors:      vectors,
		Profiles:     profiles,
		Evaluator:    evaluator,
		Checks: map[string]api.ReadinessCheck{
			"database": db.Ping,
			"events":   eventComps.Ready,
		},
	}, api.HandlerConfigFrom(cfg), logging.WithComponent("api"))

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)), guard)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	jobLogger := logging.WithComponent("maintenance")
	jobCfg := func(interval time.Duration) services.JobConfig {
		return services.JobConfig{Interval: interval, RunOnStartup: cfg.Maintenance.RunOnStartup}
	}
	tree.AddMaintenanceService(services.NewVectorizeService(vectors, jobCfg(cfg.Maintenance.VectorizeInterval), jobLogger))
	tree.AddMaintenanceService(services.NewProfileRecomputeService(profiles, cfg.Maintenance.BatchSize,
		jobCfg(cfg.Maintenance.RecomputeInterval), jobLogger))
	tree.AddMaintenanceService(services.NewEvaluationService(evaluator, cfg.Evaluation.WindowDays, cfg.Evaluation.K,
		jobCfg(cfg.Maintenance.EvaluationInterval), jobLogger))
	if precomputed != nil {
		tree.AddMaintenanceService(services.NewPrecomputeService(profiles, engine, precomputed,
			cfg.Maintenance.PrecomputeIdentities, jobCfg(cfg.Maintenance.PrecomputeInterval), jobLogger))
	}
	logging.Info().Msg("Maintenance jobs added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
