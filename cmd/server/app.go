package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/jobs"
	"github.com/taskhive/taskhive/internal/mailer"
	"github.com/taskhive/taskhive/internal/platform/postgres"
	"github.com/taskhive/taskhive/internal/service/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// application holds the assembled dependency graph for the server. Everything
// hangs off the config and the database handle; handlers receive interfaces,
// not concrete types.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *sqlx.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	sessionStore store.SessionStore

	hasher       auth.PasswordHasher
	tokenService auth.TokenService

	emitter events.EventEmitter
	runner  *jobs.Runner
}

// newApplication wires the application together from configuration. It
// connects to the database, runs pending migrations, and starts the
// background job runner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	sessionStore := postgres.NewSessionStore(db, logger)
	userStore := postgres.NewUserStore(db, hasher, logger)
	taskStore := postgres.NewTaskStore(db, logger)

	tokenService, err := auth.NewTokenService(cfg.Auth.JWTSecret, sessionStore)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	runner := jobs.NewRunner(jobs.RunnerConfig{
		WorkerCount: cfg.Jobs.WorkerCount,
		QueueSize:   cfg.Jobs.QueueSize,
	}, logger)
	runner.Start()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(jobs.NewNotificationHandler(runner, newMailer(cfg, logger), logger))

	return &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		userStore:    userStore,
		taskStore:    taskStore,
		sessionStore: sessionStore,
		hasher:       hasher,
		tokenService: tokenService,
		emitter:      emitter,
		runner:       runner,
	}, nil
}

// newMailer selects the SMTP mailer when an SMTP host is configured and the
// logging no-op mailer otherwise, so local development needs no mail server.
func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	if cfg.SMTP.Host == "" {
		logger.Info("no SMTP host configured, emails will be logged only")
		return mailer.NewLogMailer(logger)
	}
	m, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		logger.Error("failed to configure SMTP mailer, falling back to log mailer", "error", err)
		return mailer.NewLogMailer(logger)
	}
	return m
}

// cleanup releases the application's long-lived resources. The job runner is
// stopped first so queued notification emails drain before the database
// connection goes away.
func (app *application) cleanup() {
	app.runner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
