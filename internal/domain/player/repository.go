package player

import "context"

// UpsertResult reports how an upsert landed. Degraded means references were
// nulled or columns skipped to survive a partially migrated schema.
type UpsertResult struct {
	ID       string
	Created  bool
	Degraded bool
}

// Repository describes player persistence needs from use cases. Lookup order
// for existing rows is external id, then user slug (case-insensitive), then
// gamer tag (case-insensitive).
type Repository interface {
	Upsert(ctx context.Context, p Player) (UpsertResult, error)
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
}
