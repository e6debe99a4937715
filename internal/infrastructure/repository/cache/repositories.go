package cache

import (
	"context"
	"strconv"

	"github.com/smashcolombia/startgg-stats/internal/domain/player"
	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	basecache "github.com/smashcolombia/startgg-stats/internal/platform/cache"
)

// TournamentRepository caches external id lookups in front of a slower
// store. Writes pass through and invalidate the affected key.
type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

type cachedTournament struct {
	value  tournament.Tournament
	exists bool
}

func tournamentKey(externalID int64) string {
	return "tournament:ext:" + strconv.FormatInt(externalID, 10)
}

func (r *TournamentRepository) Upsert(ctx context.Context, t tournament.Tournament) (tournament.UpsertResult, error) {
	result, err := r.next.Upsert(ctx, t)
	if err != nil {
		return result, err
	}
	if t.ExternalID > 0 {
		r.cache.Delete(ctx, tournamentKey(t.ExternalID))
	}
	return result, nil
}

func (r *TournamentRepository) GetByExternalID(ctx context.Context, externalID int64) (tournament.Tournament, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, tournamentKey(externalID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedTournament{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournament)
	return cached.value, cached.exists, nil
}

// PlayerRepository mirrors the tournament decorator for player lookups.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

func playerKey(externalID int64) string {
	return "player:ext:" + strconv.FormatInt(externalID, 10)
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.UpsertResult, error) {
	result, err := r.next.Upsert(ctx, p)
	if err != nil {
		return result, err
	}
	if p.ExternalID > 0 {
		r.cache.Delete(ctx, playerKey(p.ExternalID))
	}
	return result, nil
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKey(externalID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}
