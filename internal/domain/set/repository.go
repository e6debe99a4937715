package set

import "context"

type UpsertResult struct {
	ID      string
	Created bool
}

// Repository stores normalized sets keyed by their start.gg set id.
type Repository interface {
	Upsert(ctx context.Context, s NormalizedSet) (UpsertResult, error)
	ListByEventName(ctx context.Context, eventName string) ([]NormalizedSet, error)
}
