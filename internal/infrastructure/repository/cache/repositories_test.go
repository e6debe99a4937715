package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	basecache "github.com/smashcolombia/startgg-stats/internal/platform/cache"
)

type countingTournamentRepo struct {
	lookups int
	stored  map[int64]tournament.Tournament
}

func (r *countingTournamentRepo) Upsert(_ context.Context, t tournament.Tournament) (tournament.UpsertResult, error) {
	if r.stored == nil {
		r.stored = map[int64]tournament.Tournament{}
	}
	r.stored[t.ExternalID] = t
	return tournament.UpsertResult{ID: "t-1"}, nil
}

func (r *countingTournamentRepo) GetByExternalID(_ context.Context, externalID int64) (tournament.Tournament, bool, error) {
	r.lookups++
	t, ok := r.stored[externalID]
	return t, ok, nil
}

func TestTournamentRepository_GetByExternalIDUsesCache(t *testing.T) {
	next := &countingTournamentRepo{stored: map[int64]tournament.Tournament{
		42: {ExternalID: 42, Name: "Combo Breaker Manizales"},
	}}
	repo := NewTournamentRepository(next, basecache.NewStore(time.Minute))

	first, ok, err := repo.GetByExternalID(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Combo Breaker Manizales", first.Name)

	_, ok, err = repo.GetByExternalID(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, next.lookups)
}

func TestTournamentRepository_MissIsCached(t *testing.T) {
	next := &countingTournamentRepo{}
	repo := NewTournamentRepository(next, basecache.NewStore(time.Minute))

	_, ok, err := repo.GetByExternalID(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = repo.GetByExternalID(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, next.lookups)
}

func TestTournamentRepository_UpsertInvalidates(t *testing.T) {
	next := &countingTournamentRepo{stored: map[int64]tournament.Tournament{
		42: {ExternalID: 42, Name: "Old Name"},
	}}
	repo := NewTournamentRepository(next, basecache.NewStore(time.Minute))

	_, _, err := repo.GetByExternalID(context.Background(), 42)
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), tournament.Tournament{ExternalID: 42, Name: "New Name"})
	require.NoError(t, err)

	got, ok, err := repo.GetByExternalID(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "New Name", got.Name)
	require.Equal(t, 2, next.lookups)
}
