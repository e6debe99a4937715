package tournament

import "context"

// UpsertResult reports how an upsert landed. Degraded is set when the write
// had to null references or skip columns because of a partially migrated
// schema.
type UpsertResult struct {
	ID       string
	Created  bool
	Degraded bool
}

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, t Tournament) (UpsertResult, error)
	GetByExternalID(ctx context.Context, externalID int64) (Tournament, bool, error)
}
