package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	qb "github.com/smashcolombia/startgg-stats/internal/platform/querybuilder"
)

// AuditLogRepository keeps the append-only audit trail in Postgres, with
// the free-form meta document stored as JSONB.
type AuditLogRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db, ids: id.NewRandomGenerator()}
}

func (r *AuditLogRepository) Insert(ctx context.Context, entry auditlog.Entry) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin audit insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted, err := r.insertTx(ctx, tx, entry)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit audit insert: %w", err)
	}

	return inserted, nil
}

func (r *AuditLogRepository) InsertBulk(ctx context.Context, entries []auditlog.Entry) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin audit bulk insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		inserted, err := r.insertTx(ctx, tx, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, inserted)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit audit bulk insert: %w", err)
	}

	return out, nil
}

func (r *AuditLogRepository) insertTx(ctx context.Context, tx *sqlx.Tx, entry auditlog.Entry) (string, error) {
	if entry.ID == "" {
		generated, err := r.ids.NewID()
		if err != nil {
			return "", fmt.Errorf("generate audit id: %w", err)
		}
		entry.ID = generated
	}

	var meta []byte
	if len(entry.Meta) > 0 {
		encoded, err := sonic.Marshal(entry.Meta)
		if err != nil {
			return "", fmt.Errorf("encode audit meta: %w", err)
		}
		meta = encoded
	}

	query, args, err := qb.InsertInto("audit_logs").
		Columns("public_id", "ts", "level", "service", "message", "meta").
		Values(entry.ID, entry.Timestamp, entry.Level, entry.Service, entry.Message, meta).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build audit insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert audit entry: %w", err)
	}

	return entry.ID, nil
}

func (r *AuditLogRepository) Search(ctx context.Context, filter auditlog.SearchFilter) ([]auditlog.Entry, error) {
	conditions := make([]qb.Condition, 0, 5)
	if filter.Service != "" {
		conditions = append(conditions, qb.Expr("LOWER(service) = LOWER(?)", filter.Service))
	}
	if filter.Level != "" {
		conditions = append(conditions, qb.Eq("level", filter.Level))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, qb.Expr("ts >= ?", filter.Since))
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, qb.Expr("ts <= ?", filter.Until))
	}
	if filter.Query != "" {
		conditions = append(conditions, qb.Expr("message ILIKE ?", "%"+filter.Query+"%"))
	}

	builder := qb.Select("id", "public_id", "ts", "level", "service", "message", "meta").
		From("audit_logs").
		OrderBy("ts DESC", "id DESC")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build audit search: %w", err)
	}

	var rows []auditLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search audit entries: %w", err)
	}

	out := make([]auditlog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, auditEntryFromRow(row))
	}

	return out, nil
}

func (r *AuditLogRepository) Stats(ctx context.Context) (auditlog.Stats, error) {
	var stats auditlog.Stats

	if err := r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(1) FROM audit_logs`); err != nil {
		return auditlog.Stats{}, fmt.Errorf("count audit entries: %w", err)
	}

	byLevel, err := r.countBy(ctx, "level")
	if err != nil {
		return auditlog.Stats{}, fmt.Errorf("count audit entries by level: %w", err)
	}
	stats.ByLevel = byLevel

	byService, err := r.countBy(ctx, "service")
	if err != nil {
		return auditlog.Stats{}, fmt.Errorf("count audit entries by service: %w", err)
	}
	stats.ByService = byService

	return stats, nil
}

func (r *AuditLogRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	query, args, err := qb.Select(column+" AS key", "COUNT(1) AS count").
		From("audit_logs").
		GroupBy(column).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var buckets []struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		out[b.Key] = b.Count
	}
	return out, nil
}
