package app

import (
	"context"

	"maintlog/config"
	"maintlog/internal/controllers"
	"maintlog/internal/database"
	"maintlog/internal/handlers/middleware"
	"maintlog/internal/jobs"
	"maintlog/internal/repositories"
	"maintlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

// NewWithConfig wires the application for an already validated config. The
// memory backend opens no database connection.
func NewWithConfig(cfg config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	var db database.DB
	if !cfg.IsMemoryStore() {
		var err error
		db, err = database.New(cfg)
		if err != nil {
			return &App{}, log.Err("failed to create database", err)
		}
	}

	repos := repositories.New(db, cfg)
	services := services.New(db, cfg)

	app := &App{
		Database:    db,
		Config:      cfg,
		Middleware:  middleware.New(cfg),
		Services:    services,
		Repos:       repos,
		Controllers: controllers.New(services, repos, cfg),
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	if cfg.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(services.Scheduler, cfg, repos); err != nil {
			_ = app.Close()
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := services.Scheduler.Start(context.Background()); err != nil {
			_ = app.Close()
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if !a.Config.IsMemoryStore() && a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Services.Scheduler == nil {
		return log.ErrMsg("scheduler service is nil")
	}
	if a.Services.Export == nil {
		return log.ErrMsg("export service is nil")
	}

	nilChecks := map[string]any{
		"transaction service": a.Services.Transaction,
		"ticket repository":   a.Repos.Ticket,
		"lookup repository":   a.Repos.Lookup,
		"tickets controller":  a.Controllers.Tickets,
		"lookups controller":  a.Controllers.Lookups,
	}

	for name, check := range nilChecks {
		if check == nil {
			return log.ErrMsg(name + " is nil")
		}
	}

	return nil
}

// Close stops the scheduler and releases the store handle.
func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
