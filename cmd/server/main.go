package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/api"
	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/catalog"
	"github.com/goliatone/go-enroll/internal/config"
	"github.com/goliatone/go-enroll/internal/jobs"
	"github.com/goliatone/go-enroll/internal/logger"
	"github.com/goliatone/go-enroll/internal/notify"
	"github.com/goliatone/go-enroll/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	bunDB     *bun.DB
	services  *api.Services
	srv       *api.Server
	scheduler *jobs.Scheduler
	logger    *logger.Logger
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) SetDB(db *bun.DB) {
	a.bunDB = db
}

func (a *App) SetServices(svc *api.Services) {
	a.services = svc
}

func (a *App) SetHTTPServer(srv *api.Server) {
	a.srv = srv
}

func (a *App) GetLogger(name string) *logger.Logger {
	return a.logger.Named(name)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	lgr := logger.New(cfg.LogLevel, os.Stderr)

	if !cfg.IsProduction() {
		lgr.Debug("config: %s", print.MaybePrettyJSON(map[string]any{
			"env":       cfg.Env,
			"http_addr": cfg.HTTPAddr,
			"cors":      cfg.CORSOrigin,
			"smtp":      cfg.SMTPEnabled(),
			"cleanup":   cfg.ResetCleanupSchedule,
		}))
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		lgr.Error("persistence: %v", err)
		os.Exit(1)
	}

	if err := WithServices(ctx, app); err != nil {
		lgr.Error("services: %v", err)
		os.Exit(1)
	}

	if err := WithSuperAdmin(ctx, app); err != nil {
		lgr.Error("super admin: %v", err)
		os.Exit(1)
	}

	if err := WithJobs(ctx, app); err != nil {
		lgr.Error("jobs: %v", err)
		os.Exit(1)
	}

	WithHTTPServer(ctx, app)

	lgr.Info("listening on %s", cfg.HTTPAddr)
	go app.srv.Serve(cfg.HTTPAddr)

	sig := WaitExitSignal()
	lgr.Info("received %s, shutting down", sig)

	app.Shutdown()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := persistence.Open(ctx, app.Config().DatabaseURL)
	if err != nil {
		return err
	}

	tables := append([]persistence.Table{auth.UsersTable()}, catalog.Tables()...)
	if err := persistence.EnsureSchema(ctx, db, tables...); err != nil {
		_ = db.Close()
		return err
	}

	app.SetDB(db)
	return nil
}

func WithServices(_ context.Context, app *App) error {
	svc, err := api.NewServices(app.Config(), app.bunDB, resetNotifier(app), app.GetLogger("api"))
	if err != nil {
		return err
	}
	app.SetServices(svc)
	return nil
}

func resetNotifier(app *App) auth.ResetNotifier {
	cfg := app.Config()

	if cfg.SMTPEnabled() {
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			LinkBase: cfg.ResetLinkBase,
		})
	}

	if !cfg.IsProduction() {
		return notify.NewLogNotifier(app.GetLogger("mail"), cfg.ResetLinkBase)
	}

	app.logger.Warn("SMTP_HOST not set: password reset links will not be delivered")
	return auth.DiscardResetNotifier()
}

func WithSuperAdmin(ctx context.Context, app *App) error {
	cfg := app.Config()

	created, err := auth.EnsureSuperAdmin(ctx,
		app.services.Repo.Users(),
		auth.NewBcryptHasher(cfg.PasswordHashCost),
		auth.SuperAdminSeed{
			Email:    cfg.SuperAdminEmail,
			Name:     cfg.SuperAdminName,
			Password: cfg.SuperAdminPassword,
		},
		app.GetLogger("bootstrap"),
	)
	if err != nil {
		return err
	}

	if created {
		app.logger.Info("super admin %s created", cfg.SuperAdminEmail)
	}
	return nil
}

func WithJobs(_ context.Context, app *App) error {
	scheduler := jobs.NewScheduler(app.GetLogger("jobs"))

	cleanup := jobs.NewResetCleanupJob(app.services.Repo.Users(), app.GetLogger("reset-cleanup"))
	if err := scheduler.Add(app.Config().ResetCleanupSchedule, cleanup); err != nil {
		return err
	}

	scheduler.Start()
	app.scheduler = scheduler
	return nil
}

func WithHTTPServer(_ context.Context, app *App) {
	app.SetHTTPServer(api.NewServer(app.services))
}

// Shutdown drains HTTP traffic and pending reset deliveries, then stops
// jobs and closes the database
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("http shutdown: %v", err)
		}
	}

	if a.services != nil {
		a.services.ResetRequest.Wait()
	}

	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}

	if a.bunDB != nil {
		if err := a.bunDB.Close(); err != nil {
			a.logger.Error("database close: %v", err)
		}
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
