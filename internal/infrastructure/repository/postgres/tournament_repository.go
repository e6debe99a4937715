package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	qb "github.com/smashcolombia/startgg-stats/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db     *sqlx.DB
	schema *schemaInspector
	ids    id.Generator
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{
		db:     db,
		schema: newSchemaInspector(db),
		ids:    id.NewRandomGenerator(),
	}
}

// Upsert writes the tournament in one transaction. A partially migrated
// schema degrades the write to the columns that exist instead of failing;
// the result reports whether anything was dropped.
func (r *TournamentRepository) Upsert(ctx context.Context, t tournament.Tournament) (tournament.UpsertResult, error) {
	if err := t.Validate(); err != nil {
		return tournament.UpsertResult{}, fmt.Errorf("validate tournament: %w", err)
	}

	have, err := r.schema.Columns(ctx, "tournaments")
	if err != nil {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "inspect", Err: err}
	}
	if len(have) == 0 {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "inspect", Err: fmt.Errorf("tournaments table does not exist")}
	}

	columns := []string{"external_id", "name", "slug", "city", "country_code", "department", "region", "winner", "start_date", "num_attendees"}
	values := []any{t.ExternalID, t.Name, t.Slug, t.City, t.CountryCode, t.Department, t.Region, t.Winner, t.StartDate, t.NumAttendees}
	plan, err := planWrite(have, columns, values, "external_id", "name")
	if err != nil {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "plan", Err: err}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "begin", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existingID, found, err := r.findExisting(ctx, tx, have, t)
	if err != nil {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "lookup", Err: err}
	}

	result := tournament.UpsertResult{Degraded: plan.degraded}
	if found {
		result.ID = existingID
		update := qb.Update("tournaments")
		for i, column := range plan.columns {
			update.Set(column, plan.values[i])
		}
		update.SetExpr("updated_at", "NOW()")
		query, args, err := update.Where(qb.Eq("public_id", existingID)).ToSQL()
		if err != nil {
			return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "build update", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "update", Err: err}
		}
	} else {
		generated, err := r.ids.NewID()
		if err != nil {
			return tournament.UpsertResult{}, fmt.Errorf("generate tournament id: %w", err)
		}
		result.ID = generated
		result.Created = true
		query, args, err := qb.InsertInto("tournaments").
			Columns(append([]string{"public_id"}, plan.columns...)...).
			Values(append([]any{generated}, plan.values...)...).
			ToSQL()
		if err != nil {
			return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "build insert", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "insert", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return tournament.UpsertResult{}, &PersistError{Entity: "tournament", Op: "commit", Err: err}
	}

	return result, nil
}

// findExisting applies the natural-key precedence: external id, then slug,
// then name, both case-insensitive. Keys whose column is missing from the
// live schema are skipped.
func (r *TournamentRepository) findExisting(ctx context.Context, tx *sqlx.Tx, have map[string]struct{}, t tournament.Tournament) (string, bool, error) {
	type probe struct {
		condition qb.Condition
		enabled   bool
	}
	_, hasExternal := have["external_id"]
	_, hasSlug := have["slug"]
	_, hasName := have["name"]

	probes := []probe{
		{qb.Eq("external_id", t.ExternalID), hasExternal && t.ExternalID > 0},
		{qb.Expr("LOWER(slug) = LOWER(?)", t.Slug), hasSlug && t.Slug != ""},
		{qb.Expr("LOWER(name) = LOWER(?)", t.Name), hasName && t.Name != ""},
	}

	for _, p := range probes {
		if !p.enabled {
			continue
		}
		query, args, err := qb.Select("public_id").
			From("tournaments").
			Where(p.condition).
			Limit(1).
			ToSQL()
		if err != nil {
			return "", false, err
		}
		var publicID string
		if err := tx.GetContext(ctx, &publicID, query, args...); err != nil {
			if isNotFound(err) {
				continue
			}
			return "", false, err
		}
		return publicID, true, nil
	}

	return "", false, nil
}

func (r *TournamentRepository) GetByExternalID(ctx context.Context, externalID int64) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").
		From("tournaments").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	return tournament.Tournament{
		ID:           row.PublicID,
		ExternalID:   row.ExternalID,
		Name:         row.Name,
		Slug:         row.Slug,
		City:         row.City,
		CountryCode:  row.CountryCode,
		Department:   row.Department,
		Region:       row.Region,
		Winner:       row.Winner,
		StartDate:    row.StartDate,
		NumAttendees: row.NumAttendees,
	}, true, nil
}
