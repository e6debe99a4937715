package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smashcolombia/startgg-stats/internal/domain/set"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	qb "github.com/smashcolombia/startgg-stats/internal/platform/querybuilder"
)

type SetRepository struct {
	db     *sqlx.DB
	schema *schemaInspector
	ids    id.Generator
}

var setSelectColumns = []string{
	"id",
	"public_id",
	"external_id",
	"player1_id",
	"player2_id",
	"player1_name",
	"player1_score",
	"player2_name",
	"player2_score",
	"phase_name",
	"event_name",
	"tournament_name",
	"player1_characters",
	"player2_characters",
	"created_at",
	"updated_at",
}

func NewSetRepository(db *sqlx.DB) *SetRepository {
	return &SetRepository{
		db:     db,
		schema: newSchemaInspector(db),
		ids:    id.NewRandomGenerator(),
	}
}

// Upsert stores a normalized set keyed by its external set id. The same
// schema degrade rules as the other repositories apply.
func (r *SetRepository) Upsert(ctx context.Context, s set.NormalizedSet) (set.UpsertResult, error) {
	if s.SetID <= 0 {
		return set.UpsertResult{}, fmt.Errorf("validate set: set id must be greater than zero")
	}

	have, err := r.schema.Columns(ctx, "sets")
	if err != nil {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "inspect", Err: err}
	}
	if len(have) == 0 {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "inspect", Err: fmt.Errorf("sets table does not exist")}
	}

	columns := []string{"external_id", "player1_id", "player2_id", "player1_name", "player1_score", "player2_name", "player2_score", "phase_name", "event_name", "tournament_name", "player1_characters", "player2_characters"}
	values := []any{
		s.SetID,
		nullableInt64(s.Player1ID),
		nullableInt64(s.Player2ID),
		s.Player1Name,
		s.Player1Score,
		s.Player2Name,
		s.Player2Score,
		s.PhaseName,
		s.EventName,
		s.TournamentName,
		pq.Int64Array(s.Player1Characters),
		pq.Int64Array(s.Player2Characters),
	}
	plan, err := planWrite(have, columns, values, "external_id")
	if err != nil {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "plan", Err: err}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "begin", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("public_id").
		From("sets").
		Where(qb.Eq("external_id", s.SetID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "build lookup", Err: err}
	}

	var existingID string
	found := true
	if err := tx.GetContext(ctx, &existingID, query, args...); err != nil {
		if !isNotFound(err) {
			return set.UpsertResult{}, &PersistError{Entity: "set", Op: "lookup", Err: err}
		}
		found = false
	}

	result := set.UpsertResult{}
	if found {
		result.ID = existingID
		update := qb.Update("sets")
		for i, column := range plan.columns {
			update.Set(column, plan.values[i])
		}
		update.SetExpr("updated_at", "NOW()")
		query, args, err := update.Where(qb.Eq("public_id", existingID)).ToSQL()
		if err != nil {
			return set.UpsertResult{}, &PersistError{Entity: "set", Op: "build update", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return set.UpsertResult{}, &PersistError{Entity: "set", Op: "update", Err: err}
		}
	} else {
		generated, err := r.ids.NewID()
		if err != nil {
			return set.UpsertResult{}, fmt.Errorf("generate set id: %w", err)
		}
		result.ID = generated
		result.Created = true
		query, args, err := qb.InsertInto("sets").
			Columns(append([]string{"public_id"}, plan.columns...)...).
			Values(append([]any{generated}, plan.values...)...).
			ToSQL()
		if err != nil {
			return set.UpsertResult{}, &PersistError{Entity: "set", Op: "build insert", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return set.UpsertResult{}, &PersistError{Entity: "set", Op: "insert", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return set.UpsertResult{}, &PersistError{Entity: "set", Op: "commit", Err: err}
	}

	return result, nil
}

func (r *SetRepository) ListByEventName(ctx context.Context, eventName string) ([]set.NormalizedSet, error) {
	query, args, err := qb.Select(setSelectColumns...).
		From("sets").
		Where(qb.Eq("event_name", eventName)).
		OrderBy("external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sets query: %w", err)
	}

	var rows []setTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sets by event: %w", err)
	}

	out := make([]set.NormalizedSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, set.NormalizedSet{
			SetID:             row.ExternalID,
			Player1ID:         nullInt64ToPtr(row.Player1ID),
			Player2ID:         nullInt64ToPtr(row.Player2ID),
			Player1Name:       row.Player1Name,
			Player1Score:      row.Player1Score,
			Player2Name:       row.Player2Name,
			Player2Score:      row.Player2Score,
			PhaseName:         row.PhaseName,
			EventName:         row.EventName,
			TournamentName:    row.TournamentName,
			Player1Characters: []int64(row.Player1Characters),
			Player2Characters: []int64(row.Player2Characters),
		})
	}

	return out, nil
}
