package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/splashpad/lesson-api/internal/config"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/platform/metrics"
	"github.com/splashpad/lesson-api/internal/platform/postgres"
	"github.com/splashpad/lesson-api/internal/schema"
	"github.com/splashpad/lesson-api/internal/service/auth"
	"github.com/splashpad/lesson-api/internal/service/groups"
	"github.com/splashpad/lesson-api/internal/store"
)

// application holds the initialized dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	contentStore  store.ContentStore
	taxonomyStore store.TaxonomyStore
	userStore     store.UserStore
	txRunner      store.TxRunner

	registry *schema.Registry
	metrics  *metrics.Manager

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	groupService     groups.GroupService
}

// newApplication wires the full dependency graph: config, logger, database,
// stores, services. It does not start the HTTP server.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"log_format", cfg.Server.LogFormat)

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	registry := schema.Default()
	contentStore := postgres.NewPostgresContentStore(db, log)
	taxonomyStore := postgres.NewPostgresTaxonomyStore(db, log)
	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, log)
	txRunner := postgres.NewTxRunner(db, log)

	groupService := groups.NewGroupService(contentStore, taxonomyStore, txRunner, registry, log)

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		contentStore:     contentStore,
		taxonomyStore:    taxonomyStore,
		userStore:        userStore,
		txRunner:         txRunner,
		registry:         registry,
		metrics:          metrics.NewManager(),
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		groupService:     groupService,
	}, nil
}

// tokenLifetime returns the configured access token lifetime.
func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("failed to close database connection", "error", err)
	}
}
