package report

import "context"

// Repository stores report jobs. MarkReady and MarkError must refuse to move
// a job that already reached a terminal state. Get reports a missing job via
// the second return value.
type Repository interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id string) (Job, bool, error)
	MarkReady(ctx context.Context, id string, path string) error
	MarkError(ctx context.Context, id string, message string) error
}
