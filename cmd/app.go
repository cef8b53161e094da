package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/internal/database"
	"github.com/example/mistakebook/internal/logging"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/scheduler"
)

// app holds everything a command needs, wired from the configuration.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *sqlx.DB
	sched *scheduler.Scheduler
	svc   *practice.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Driver = "sqlite3"
		cfg.Database.Path = dbPath
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Sync()
		return nil, err
	}

	store := database.NewStore(db)
	sched := scheduler.New(nil, nil, cfg.Reminder, log)
	svc := practice.NewService(
		database.NewProblemRepository(store, log),
		database.NewCategoryRepository(store, log),
		database.NewTitleRepository(store, log),
		sched,
		cfg.Session,
		log,
	)

	return &app{cfg: cfg, log: log, db: db, sched: sched, svc: svc}, nil
}

// start runs the scheduler so that sessions can advance on their own.
func (a *app) start() error {
	if err := a.sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

func (a *app) Close() {
	a.sched.Stop()
	a.db.Close()
	a.log.Sync()
}
