package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/smashcolombia/startgg-stats/internal/domain/player"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
)

type PlayerRepository struct {
	mu   sync.RWMutex
	rows map[string]player.Player
	ids  id.Generator
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		rows: make(map[string]player.Player),
		ids:  id.NewRandomGenerator(),
	}
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) (player.UpsertResult, error) {
	if err := p.Validate(); err != nil {
		return player.UpsertResult{}, fmt.Errorf("validate player: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.findLocked(p); ok {
		p.ID = existing.ID
		r.rows[p.ID] = p
		return player.UpsertResult{ID: p.ID}, nil
	}

	generated, err := r.ids.NewID()
	if err != nil {
		return player.UpsertResult{}, err
	}
	p.ID = generated
	r.rows[p.ID] = p

	return player.UpsertResult{ID: p.ID, Created: true}, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return player.Player{}, false, nil
}

// findLocked applies the natural-key precedence: external id, then user
// slug, then gamer tag, both case-insensitive.
func (r *PlayerRepository) findLocked(p player.Player) (player.Player, bool) {
	if p.ExternalID > 0 {
		for _, row := range r.rows {
			if row.ExternalID == p.ExternalID {
				return row, true
			}
		}
	}
	if p.UserSlug != "" {
		for _, row := range r.rows {
			if strings.EqualFold(row.UserSlug, p.UserSlug) {
				return row, true
			}
		}
	}
	if p.GamerTag != "" {
		for _, row := range r.rows {
			if strings.EqualFold(row.GamerTag, p.GamerTag) {
				return row, true
			}
		}
	}
	return player.Player{}, false
}
