package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/smashcolombia/startgg-stats/internal/domain/geo"
	"github.com/smashcolombia/startgg-stats/internal/domain/player"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultSyncWorkers = 4

// PlayerDetails is a player profile served over HTTP.
type PlayerDetails struct {
	ID         int64  `json:"id"`
	GamerTag   string `json:"gamerTag"`
	Prefix     string `json:"prefix"`
	UserSlug   string `json:"userSlug"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Department string `json:"department"`
	Region     string `json:"region"`
	Twitter    string `json:"twitter"`
	Discord    string `json:"discord"`
	Twitch     string `json:"twitch"`
}

// PlayerSyncSummary reports a per-attendee sync. Errors holds one message per
// failed attendee; a failure never aborts the batch.
type PlayerSyncSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// PlayerService fetches player profiles and syncs them into the store.
type PlayerService struct {
	provider TournamentDataProvider
	players  player.Repository
	audit    AuditRecorder
	logger   *logging.Logger
	workers  int
	cfg      TournamentServiceConfig
}

func NewPlayerService(
	provider TournamentDataProvider,
	players player.Repository,
	audit AuditRecorder,
	logger *logging.Logger,
	workers int,
	cfg TournamentServiceConfig,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	if audit == nil {
		audit = NewNopAuditRecorder()
	}
	if workers < 1 {
		workers = defaultSyncWorkers
	}
	return &PlayerService{
		provider: provider,
		players:  players,
		audit:    audit,
		logger:   logger,
		workers:  workers,
		cfg:      normalizeTournamentServiceConfig(cfg),
	}
}

// GetPlayer fetches one profile and enriches it with the geographic lookup.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID int64) (PlayerDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.GetPlayer")
	defer span.End()

	if playerID <= 0 {
		return PlayerDetails{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	profile, err := s.provider.Player(ctx, playerID)
	if err != nil {
		return PlayerDetails{}, err
	}

	return presentPlayer(profile), nil
}

// SyncTournamentPlayers upserts a profile for every attendee with a linked
// player account. Attendees are processed on a bounded worker pool; each one
// succeeds or fails independently.
func (s *PlayerService) SyncTournamentPlayers(ctx context.Context, tournamentID int64) (PlayerSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.SyncTournamentPlayers")
	defer span.End()

	if tournamentID <= 0 {
		return PlayerSyncSummary{}, fmt.Errorf("%w: tournament id must be greater than zero", ErrInvalidInput)
	}

	attendees, _, err := collectAttendees(ctx, s.provider, tournamentID, s.cfg)
	if err != nil {
		return PlayerSyncSummary{}, fmt.Errorf("collect attendees tournament_id=%d: %w", tournamentID, err)
	}

	var created, updated, skipped atomic.Int32
	failures := make([]string, len(attendees))

	workers := pool.New().WithMaxGoroutines(s.workers)
	for i, attendee := range attendees {
		if attendee.PlayerID == nil {
			skipped.Add(1)
			continue
		}
		i, attendee := i, attendee
		workers.Go(func() {
			wasCreated, syncErr := s.syncOne(ctx, *attendee.PlayerID)
			switch {
			case syncErr != nil:
				failures[i] = fmt.Sprintf("player %d (%s): %v", *attendee.PlayerID, attendee.GamerTag, syncErr)
			case wasCreated:
				created.Add(1)
			default:
				updated.Add(1)
			}
		})
	}
	workers.Wait()

	summary := PlayerSyncSummary{
		Created: int(created.Load()),
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
	}
	for _, failure := range failures {
		if failure != "" {
			summary.Errors = append(summary.Errors, failure)
		}
	}

	s.audit.Record(ctx, AuditEvent{
		Level:   "INFO",
		Message: fmt.Sprintf("player sync for tournament %d: %d created, %d updated, %d skipped, %d failed", tournamentID, summary.Created, summary.Updated, summary.Skipped, len(summary.Errors)),
		Meta:    map[string]any{"tournament_id": tournamentID},
	})

	return summary, nil
}

// syncOne fetches and upserts a single profile. The repository wraps each
// upsert in its own transaction, matching the independent-failure policy.
func (s *PlayerService) syncOne(ctx context.Context, playerID int64) (bool, error) {
	profile, err := s.provider.Player(ctx, playerID)
	if err != nil {
		return false, err
	}

	location := geo.Resolve(profile.City)
	record := player.Player{
		ExternalID: profile.ID,
		GamerTag:   profile.GamerTag,
		Prefix:     profile.Prefix,
		UserSlug:   profile.UserSlug,
		City:       profile.City,
		State:      profile.State,
		Country:    profile.Country,
		Department: location.Department,
		Region:     location.Region,
		Twitter:    profile.Twitter,
		Discord:    profile.Discord,
		Twitch:     profile.Twitch,
	}

	result, err := s.players.Upsert(ctx, record)
	if err != nil {
		return false, err
	}
	if result.Degraded {
		s.logger.WarnContext(ctx, "player upsert degraded by schema", "player_external_id", profile.ID, "id", result.ID)
	}

	return result.Created, nil
}

func presentPlayer(profile UpstreamPlayer) PlayerDetails {
	location := geo.Resolve(profile.City)
	return PlayerDetails{
		ID:         profile.ID,
		GamerTag:   profile.GamerTag,
		Prefix:     profile.Prefix,
		UserSlug:   profile.UserSlug,
		City:       profile.City,
		State:      profile.State,
		Country:    profile.Country,
		Department: location.Department,
		Region:     location.Region,
		Twitter:    profile.Twitter,
		Discord:    profile.Discord,
		Twitch:     profile.Twitch,
	}
}
