package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/netmon"
	"github.com/MKhiriev/go-note-keeper/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewClientWorkers assembles the client's background workers: the
// connectivity monitor probing the server and the periodic sync job draining
// the mutation queue.
func NewClientWorkers(monitor *netmon.Monitor, syncJob service.ClientSyncJob, cfg config.ClientWorkers, logger *logger.Logger) *Workers {
	logger.Info().
		Dur("ping_interval", cfg.PingInterval).
		Dur("sync_interval", cfg.SyncInterval).
		Msg("creating client workers...")

	return &Workers{
		workers: []Worker{
			&monitorWorker{monitor: monitor},
			&syncJobWorker{job: syncJob, interval: cfg.SyncInterval},
		},
	}
}

// Run launches every worker. It returns immediately; workers stop when ctx
// is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// monitorWorker runs the connectivity monitor's probe loop.
type monitorWorker struct {
	monitor *netmon.Monitor
}

func (w *monitorWorker) Run(ctx context.Context) {
	go w.monitor.Run(ctx)
}

// syncJobWorker runs the periodic queue drain and snapshot refresh.
type syncJobWorker struct {
	job      service.ClientSyncJob
	interval time.Duration
}

func (w *syncJobWorker) Run(ctx context.Context) {
	w.job.Start(ctx, w.interval)
}
