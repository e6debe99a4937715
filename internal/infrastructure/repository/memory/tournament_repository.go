package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
)

type TournamentRepository struct {
	mu   sync.RWMutex
	rows map[string]tournament.Tournament
	ids  id.Generator
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{
		rows: make(map[string]tournament.Tournament),
		ids:  id.NewRandomGenerator(),
	}
}

func (r *TournamentRepository) Upsert(_ context.Context, t tournament.Tournament) (tournament.UpsertResult, error) {
	if err := t.Validate(); err != nil {
		return tournament.UpsertResult{}, fmt.Errorf("validate tournament: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.findLocked(t); ok {
		t.ID = existing.ID
		r.rows[t.ID] = t
		return tournament.UpsertResult{ID: t.ID}, nil
	}

	generated, err := r.ids.NewID()
	if err != nil {
		return tournament.UpsertResult{}, err
	}
	t.ID = generated
	r.rows[t.ID] = t

	return tournament.UpsertResult{ID: t.ID, Created: true}, nil
}

func (r *TournamentRepository) GetByExternalID(_ context.Context, externalID int64) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

// findLocked applies the natural-key precedence: external id, then slug,
// then name, both case-insensitive.
func (r *TournamentRepository) findLocked(t tournament.Tournament) (tournament.Tournament, bool) {
	if t.ExternalID > 0 {
		for _, row := range r.rows {
			if row.ExternalID == t.ExternalID {
				return row, true
			}
		}
	}
	if t.Slug != "" {
		for _, row := range r.rows {
			if strings.EqualFold(row.Slug, t.Slug) {
				return row, true
			}
		}
	}
	if t.Name != "" {
		for _, row := range r.rows {
			if strings.EqualFold(row.Name, t.Name) {
				return row, true
			}
		}
	}
	return tournament.Tournament{}, false
}
