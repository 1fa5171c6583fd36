// Package worker hosts the background deliveries that run alongside the
// HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"classrank/config"
	"classrank/internal/delivery"
	"classrank/internal/usecase"

	"go.uber.org/fx"
)

// janitor periodically prunes expired sessions and verification tokens.
// Expired rows are already invisible to lookups, so the sweep only keeps
// table growth in check.
type janitor struct {
	maintenanceUC usecase.MaintenanceUsecase
	interval      time.Duration
	logger        *slog.Logger
	done          chan struct{}
}

// JanitorParams holds dependencies for the janitor, injected by Fx.
type JanitorParams struct {
	fx.In
	fx.Lifecycle

	MaintenanceUC usecase.MaintenanceUsecase
	Config        *config.Config
	Logger        *slog.Logger
}

// NewJanitor creates the pruning worker.
func NewJanitor(params JanitorParams) (delivery.Delivery, error) {
	interval := config.DefaultPruneInterval
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.PruneInterval > 0 {
		interval = params.Config.Auth.PruneInterval
	}

	j := &janitor{
		maintenanceUC: params.MaintenanceUC,
		interval:      interval,
		logger:        params.Logger,
		done:          make(chan struct{}),
	}

	params.Append(fx.Hook{
		OnStop: j.stop,
	})

	return j, nil
}

// Serve runs the prune loop until the context is cancelled or the janitor
// is stopped.
func (j *janitor) Serve(ctx context.Context) error {
	j.logger.Info("Starting credential janitor", slog.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-j.done:
			return nil
		case <-ticker.C:
			if _, err := j.maintenanceUC.PruneExpired(ctx); err != nil {
				// A failed sweep is retried on the next tick.
				j.logger.Error("Prune sweep failed", slog.Any("error", err))
			}
		}
	}
}

func (j *janitor) stop(ctx context.Context) error {
	j.logger.Info("Stopping credential janitor")
	close(j.done)

	return nil
}
