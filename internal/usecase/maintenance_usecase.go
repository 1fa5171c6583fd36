package usecase

import "context"

// PruneReport tallies rows removed by a maintenance sweep.
type PruneReport struct {
	Sessions           int64
	VerificationTokens int64
}

// MaintenanceUsecase performs periodic housekeeping over credential state.
type MaintenanceUsecase interface {
	// PruneExpired removes sessions and verification tokens whose expiry
	// has passed. Expired rows are already invisible to lookups; pruning
	// only reclaims storage.
	PruneExpired(ctx context.Context) (*PruneReport, error)
}
