package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/internal"
	"chat-relay/runtime"
)

// TelemetryWorker periodically logs registry and process stats. Purely
// observational; losing a tick has no effect on routing.
type TelemetryWorker struct {
	log      *slog.Logger
	registry *runtime.Registry
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, registry *runtime.Registry, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, registry: registry, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case <-ticker.C:
			clients, groups := w.registry.Counts()
			stats := internal.ProcessStats()
			w.log.Info("relay stats",
				"clients", clients,
				"groups", groups,
				"goroutines", stats["goroutines"],
				"rss_bytes", stats["rss_bytes"])
		}
	}
}
