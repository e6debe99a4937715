package auditlog

import "context"

// Repository is the append-only audit store.
type Repository interface {
	Insert(ctx context.Context, entry Entry) (string, error)
	InsertBulk(ctx context.Context, entries []Entry) ([]string, error)
	Search(ctx context.Context, filter SearchFilter) ([]Entry, error)
	Stats(ctx context.Context) (Stats, error)
}
