package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/trimline/seatcase/internal/http"
	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/internal/store/drivers/sqlite"
	"github.com/trimline/seatcase/pkg/cryptox"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
	"github.com/trimline/seatcase/pkg/tokenx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	codec  *tokenx.Codec
	cookie httpx.SessionCookie

	authService  *service.AuthService
	userService  *service.UserService
	caseService  *service.CaseService
	mediaService *service.MediaService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. A missing
// session secret fails here, before anything listens.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "seatcase",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := tokenx.New(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}
	app.codec = codec
	app.cookie = httpx.SessionCookie{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.SessionTTL,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("seatcase starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down seatcase...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("seatcase stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	bootstrapPassword := app.cfg.BootstrapPassword
	if bootstrapPassword == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate bootstrap password: %w", err)
		}
		bootstrapPassword = generated
		// Logged once so the operator can reach the admin panel. Configure
		// SEATCASE_BOOTSTRAP_PASSWORD to avoid this.
		app.logger.Warn("no bootstrap password configured, generated one",
			"username", app.cfg.BootstrapUsername,
			"password", bootstrapPassword,
		)
	}

	app.authService = &service.AuthService{
		Store:             app.db,
		Codec:             app.codec,
		BootstrapUsername: app.cfg.BootstrapUsername,
		BootstrapPassword: bootstrapPassword,
	}
	app.userService = &service.UserService{Store: app.db}
	app.caseService = &service.CaseService{Store: app.db}
	app.mediaService = &service.MediaService{
		UploadDir: app.cfg.UploadDir,
		BasePath:  "/uploads",
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		app.cookie,
		app.cfg.UploadDir,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.CaseService = app.caseService
	router.MediaService = app.mediaService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
