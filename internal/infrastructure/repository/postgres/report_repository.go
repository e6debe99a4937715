package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smashcolombia/startgg-stats/internal/domain/report"
	qb "github.com/smashcolombia/startgg-stats/internal/platform/querybuilder"
)

// ReportRepository tracks report jobs. The pending-to-terminal transition
// is guarded in SQL: the status update only matches rows still pending, so
// a second transition affects zero rows and is rejected.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, job report.Job) error {
	query, args, err := qb.InsertInto("report_jobs").
		Columns("public_id", "status", "report_type", "created_at").
		Values(job.ID, string(job.Status), job.Type, job.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build report insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report job: %w", err)
	}

	return nil
}

func (r *ReportRepository) Get(ctx context.Context, jobID string) (report.Job, bool, error) {
	query, args, err := qb.Select("id", "public_id", "status", "report_type", "created_at", "artifact_path", "error_message").
		From("report_jobs").
		Where(qb.Eq("public_id", jobID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return report.Job{}, false, fmt.Errorf("build report get: %w", err)
	}

	var row reportJobTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return report.Job{}, false, nil
		}
		return report.Job{}, false, fmt.Errorf("get report job: %w", err)
	}

	return report.Job{
		ID:        row.PublicID,
		Status:    report.Status(row.Status),
		Type:      row.Type,
		CreatedAt: row.CreatedAt,
		Path:      row.Path.String,
		Error:     row.ErrorMessage.String,
	}, true, nil
}

func (r *ReportRepository) MarkReady(ctx context.Context, jobID string, path string) error {
	return r.finish(ctx, jobID, func(update *qb.UpdateBuilder) {
		update.Set("status", string(report.StatusReady))
		update.Set("artifact_path", path)
	})
}

func (r *ReportRepository) MarkError(ctx context.Context, jobID string, message string) error {
	return r.finish(ctx, jobID, func(update *qb.UpdateBuilder) {
		update.Set("status", string(report.StatusError))
		update.Set("error_message", message)
	})
}

func (r *ReportRepository) finish(ctx context.Context, jobID string, apply func(*qb.UpdateBuilder)) error {
	update := qb.Update("report_jobs")
	apply(update)
	query, args, err := update.
		Where(
			qb.Eq("public_id", jobID),
			qb.Eq("status", string(report.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build report transition: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("transition report job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition report job: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %s is missing or already terminal", jobID)
	}

	return nil
}
