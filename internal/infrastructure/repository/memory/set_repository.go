package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/smashcolombia/startgg-stats/internal/domain/set"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
)

type SetRepository struct {
	mu    sync.RWMutex
	rows  map[int64]set.NormalizedSet
	idsBy map[int64]string
	ids   id.Generator
}

func NewSetRepository() *SetRepository {
	return &SetRepository{
		rows:  make(map[int64]set.NormalizedSet),
		idsBy: make(map[int64]string),
		ids:   id.NewRandomGenerator(),
	}
}

func (r *SetRepository) Upsert(_ context.Context, s set.NormalizedSet) (set.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rowID, ok := r.idsBy[s.SetID]; ok {
		r.rows[s.SetID] = s
		return set.UpsertResult{ID: rowID}, nil
	}

	generated, err := r.ids.NewID()
	if err != nil {
		return set.UpsertResult{}, err
	}
	r.rows[s.SetID] = s
	r.idsBy[s.SetID] = generated

	return set.UpsertResult{ID: generated, Created: true}, nil
}

func (r *SetRepository) ListByEventName(_ context.Context, eventName string) ([]set.NormalizedSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]set.NormalizedSet, 0, len(r.rows))
	for _, row := range r.rows {
		if row.EventName == eventName {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetID < out[j].SetID })

	return out, nil
}
