package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smashcolombia/startgg-stats/internal/domain/player"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	qb "github.com/smashcolombia/startgg-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db     *sqlx.DB
	schema *schemaInspector
	ids    id.Generator
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{
		db:     db,
		schema: newSchemaInspector(db),
		ids:    id.NewRandomGenerator(),
	}
}

// Upsert writes the player in one transaction. Degrade steps, in order:
// a tournament reference whose target table or row is absent is nulled, and
// columns missing from the live schema are dropped from the write. Either
// step marks the result degraded.
func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.UpsertResult, error) {
	if err := p.Validate(); err != nil {
		return player.UpsertResult{}, fmt.Errorf("validate player: %w", err)
	}

	have, err := r.schema.Columns(ctx, "players")
	if err != nil {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "inspect", Err: err}
	}
	if len(have) == 0 {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "inspect", Err: fmt.Errorf("players table does not exist")}
	}

	tournamentRef := p.TournamentID
	refDegraded := false
	if tournamentRef != nil {
		ok, refErr := r.tournamentRefExists(ctx, *tournamentRef)
		if refErr != nil {
			return player.UpsertResult{}, &PersistError{Entity: "player", Op: "check tournament ref", Err: refErr}
		}
		if !ok {
			tournamentRef = nil
			refDegraded = true
		}
	}

	columns := []string{"external_id", "gamer_tag", "prefix", "user_slug", "city", "state", "country", "department", "region", "twitter", "discord", "twitch", "tournament_public_id"}
	values := []any{p.ExternalID, p.GamerTag, p.Prefix, p.UserSlug, p.City, p.State, p.Country, p.Department, p.Region, p.Twitter, p.Discord, p.Twitch, nullableString(tournamentRef)}
	plan, err := planWrite(have, columns, values, "external_id", "gamer_tag")
	if err != nil {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "plan", Err: err}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "begin", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existingID, found, err := r.findExisting(ctx, tx, have, p)
	if err != nil {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "lookup", Err: err}
	}

	result := player.UpsertResult{Degraded: plan.degraded || refDegraded}
	if found {
		result.ID = existingID
		update := qb.Update("players")
		for i, column := range plan.columns {
			update.Set(column, plan.values[i])
		}
		update.SetExpr("updated_at", "NOW()")
		query, args, err := update.Where(qb.Eq("public_id", existingID)).ToSQL()
		if err != nil {
			return player.UpsertResult{}, &PersistError{Entity: "player", Op: "build update", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return player.UpsertResult{}, &PersistError{Entity: "player", Op: "update", Err: err}
		}
	} else {
		generated, err := r.ids.NewID()
		if err != nil {
			return player.UpsertResult{}, fmt.Errorf("generate player id: %w", err)
		}
		result.ID = generated
		result.Created = true
		query, args, err := qb.InsertInto("players").
			Columns(append([]string{"public_id"}, plan.columns...)...).
			Values(append([]any{generated}, plan.values...)...).
			ToSQL()
		if err != nil {
			return player.UpsertResult{}, &PersistError{Entity: "player", Op: "build insert", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return player.UpsertResult{}, &PersistError{Entity: "player", Op: "insert", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return player.UpsertResult{}, &PersistError{Entity: "player", Op: "commit", Err: err}
	}

	return result, nil
}

// tournamentRefExists is the structural check behind the FK degrade step:
// the reference only survives when the tournaments table and the referenced
// row both exist.
func (r *PlayerRepository) tournamentRefExists(ctx context.Context, publicID string) (bool, error) {
	exists, err := r.schema.TableExists(ctx, "tournaments")
	if err != nil || !exists {
		return false, err
	}

	var found bool
	err = r.db.GetContext(ctx, &found, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE public_id = $1)`, publicID)
	if err != nil {
		return false, err
	}
	return found, nil
}

// findExisting applies the natural-key precedence: external id, then user
// slug, then gamer tag, both case-insensitive.
func (r *PlayerRepository) findExisting(ctx context.Context, tx *sqlx.Tx, have map[string]struct{}, p player.Player) (string, bool, error) {
	type probe struct {
		condition qb.Condition
		enabled   bool
	}
	_, hasExternal := have["external_id"]
	_, hasSlug := have["user_slug"]
	_, hasTag := have["gamer_tag"]

	probes := []probe{
		{qb.Eq("external_id", p.ExternalID), hasExternal && p.ExternalID > 0},
		{qb.Expr("LOWER(user_slug) = LOWER(?)", p.UserSlug), hasSlug && p.UserSlug != ""},
		{qb.Expr("LOWER(gamer_tag) = LOWER(?)", p.GamerTag), hasTag && p.GamerTag != ""},
	}

	for _, pr := range probes {
		if !pr.enabled {
			continue
		}
		query, args, err := qb.Select("public_id").
			From("players").
			Where(pr.condition).
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

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").
		From("players").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return player.Player{
		ID:           row.PublicID,
		ExternalID:   row.ExternalID,
		GamerTag:     row.GamerTag,
		Prefix:       row.Prefix,
		UserSlug:     row.UserSlug,
		City:         row.City,
		State:        row.State,
		Country:      row.Country,
		Department:   row.Department,
		Region:       row.Region,
		Twitter:      row.Twitter,
		Discord:      row.Discord,
		Twitch:       row.Twitch,
		TournamentID: nullStringToPtr(row.TournamentID),
	}, true, nil
}
