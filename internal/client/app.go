package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/netmon"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/tui"
	"github.com/MKhiriev/go-note-keeper/internal/workers"
	"github.com/MKhiriev/go-note-keeper/models"
)

type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	workers  *workers.Workers
	db       *store.DB
	logger   *logger.Logger
}

// NewApp assembles the whole client: config, local SQLite cache, HTTP server
// adapter, connectivity monitor, services, background workers, and the TUI.
func NewApp(buildInfo models.AppBuildInfo) (*App, error) {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error getting client config: %w", err)
	}

	log := logger.NewClientLogger("client")

	db, err := store.NewConnectSQLite(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting local database: %w", err)
	}

	storages := store.NewClientStorages(db, log)

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("error creating server adapter: %w", err)
	}

	monitor := netmon.NewMonitor(serverAdapter, cfg.Workers.PingInterval, log)

	services := service.NewClientServices(storages, serverAdapter, monitor, log)

	ui, err := tui.New(services, buildInfo, log)
	if err != nil {
		return nil, fmt.Errorf("error creating TUI: %w", err)
	}

	clientWorkers := workers.NewClientWorkers(monitor, services.SyncJob, cfg.Workers, log)

	return &App{
		services: services,
		tui:      ui,
		workers:  clientWorkers,
		db:       db,
		logger:   log,
	}, nil
}

// Run drives the client lifecycle: authenticate, launch background workers,
// run the dashboard. A logout from the dashboard returns to the login flow.
func (a *App) Run() error {
	defer a.shutdown()

	for {
		ctx, cancel := context.WithCancel(context.Background())

		if err := a.tui.LoginFlow(ctx); err != nil {
			cancel()
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return fmt.Errorf("login flow failed: %w", err)
		}

		// Workers are scoped to the authenticated session; a logout cancels
		// them and the next iteration starts fresh ones.
		a.workers.Run(ctx)

		logout, err := a.tui.MainLoop(ctx)
		cancel()
		a.services.SyncJob.Stop()

		if err != nil {
			return fmt.Errorf("main loop failed: %w", err)
		}
		if !logout {
			return nil
		}
	}
}

func (a *App) shutdown() {
	if err := a.services.Coordinator.Close(); err != nil {
		a.logger.Err(err).Msg("error closing sync coordinator")
	}
	if err := a.db.Close(); err != nil {
		a.logger.Err(err).Msg("error closing local database")
	}
	a.logger.Info().Msg("client stopped")
}
