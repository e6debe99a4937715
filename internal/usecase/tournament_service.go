package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/smashcolombia/startgg-stats/internal/domain/geo"
	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/paging"
)

const (
	defaultParticipantsPerPage = 100
	defaultParticipantsDelay   = 250 * time.Millisecond
	defaultSetsPerPage         = 20
	defaultSetsDelay           = time.Second
	defaultListPerPage         = 25

	winnerFallback = "N/A"

	// Upstream timestamps above this are milliseconds, not seconds.
	millisecondThreshold = 1_000_000_000_000
)

type TournamentServiceConfig struct {
	ParticipantsPerPage int
	ParticipantsDelay   time.Duration
	SetsPerPage         int
	SetsDelay           time.Duration
}

func normalizeTournamentServiceConfig(cfg TournamentServiceConfig) TournamentServiceConfig {
	if cfg.ParticipantsPerPage < 1 {
		cfg.ParticipantsPerPage = defaultParticipantsPerPage
	}
	if cfg.ParticipantsDelay < 0 {
		cfg.ParticipantsDelay = defaultParticipantsDelay
	}
	if cfg.SetsPerPage < 1 {
		cfg.SetsPerPage = defaultSetsPerPage
	}
	if cfg.SetsDelay < 0 {
		cfg.SetsDelay = defaultSetsDelay
	}
	return cfg
}

// Attendee is one tournament registration in an aggregated response.
type Attendee struct {
	ParticipantID int64  `json:"participantId"`
	GamerTag      string `json:"gamerTag"`
	PlayerID      *int64 `json:"playerId"`
}

// TournamentDetails is the aggregated tournament payload served over HTTP.
type TournamentDetails struct {
	Name          string     `json:"name"`
	Winner        string     `json:"winner"`
	NumAttendees  int        `json:"numAttendees"`
	AttendeesList []Attendee `json:"attendeesList"`
	City          string     `json:"city"`
	CountryCode   string     `json:"countryCode"`
	Department    string     `json:"department"`
	Region        string     `json:"region"`
	StartDate     string     `json:"startDate"`
	Slug          string     `json:"slug"`
}

// TournamentSummary is one row of a by-country listing.
type TournamentSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	StartDate   string `json:"startDate"`
}

// TournamentService aggregates start.gg tournaments: header, attendees,
// winner and the geographic enrichment.
type TournamentService struct {
	provider    TournamentDataProvider
	tournaments tournament.Repository
	audit       AuditRecorder
	logger      *logging.Logger
	cfg         TournamentServiceConfig
}

func NewTournamentService(
	provider TournamentDataProvider,
	tournaments tournament.Repository,
	audit AuditRecorder,
	logger *logging.Logger,
	cfg TournamentServiceConfig,
) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	if audit == nil {
		audit = NewNopAuditRecorder()
	}
	return &TournamentService{
		provider:    provider,
		tournaments: tournaments,
		audit:       audit,
		logger:      logger,
		cfg:         normalizeTournamentServiceConfig(cfg),
	}
}

// GetTournamentDetails aggregates one tournament. Any page failure while
// collecting attendees aborts the call with the upstream error; consumers
// expect a complete attendee list or none.
func (s *TournamentService) GetTournamentDetails(ctx context.Context, tournamentID int64) (TournamentDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.GetTournamentDetails")
	defer span.End()

	if tournamentID <= 0 {
		return TournamentDetails{}, fmt.Errorf("%w: tournament id must be greater than zero", ErrInvalidInput)
	}

	header, err := s.provider.Tournament(ctx, tournamentID)
	if err != nil {
		return TournamentDetails{}, err
	}

	attendees, _, err := collectAttendees(ctx, s.provider, tournamentID, s.cfg)
	if err != nil {
		return TournamentDetails{}, fmt.Errorf("collect attendees tournament_id=%d: %w", tournamentID, err)
	}

	details := s.assembleDetails(header, attendees)

	if s.tournaments != nil {
		s.persistTournament(ctx, header, details)
	}
	s.audit.Record(ctx, AuditEvent{
		Level:   "INFO",
		Message: fmt.Sprintf("aggregated tournament %d with %d attendees", tournamentID, details.NumAttendees),
		Meta:    map[string]any{"tournament_id": tournamentID},
	})

	return details, nil
}

// GetEventDetails resolves the event's tournament first, then delegates.
func (s *TournamentService) GetEventDetails(ctx context.Context, eventID int64) (TournamentDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.GetEventDetails")
	defer span.End()

	if eventID <= 0 {
		return TournamentDetails{}, fmt.Errorf("%w: event id must be greater than zero", ErrInvalidInput)
	}

	tournamentID, err := s.provider.TournamentIDForEvent(ctx, eventID)
	if err != nil {
		return TournamentDetails{}, err
	}

	return s.GetTournamentDetails(ctx, tournamentID)
}

// ListTournamentsByCountry returns one page of tournaments for a country.
func (s *TournamentService) ListTournamentsByCountry(ctx context.Context, countryCode string, page, perPage int) ([]TournamentSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.ListTournamentsByCountry")
	defer span.End()

	if countryCode == "" {
		return nil, fmt.Errorf("%w: country code is required", ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultListPerPage
	}

	result, err := s.provider.TournamentsByCountry(ctx, countryCode, page, perPage)
	if err != nil {
		return nil, err
	}

	out := make([]TournamentSummary, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, TournamentSummary{
			ID:          item.ID,
			Name:        item.Name,
			Slug:        item.Slug,
			City:        item.City,
			CountryCode: item.CountryCode,
			StartDate:   formatStartDate(item.StartAt),
		})
	}

	return out, nil
}

func (s *TournamentService) assembleDetails(header UpstreamTournament, attendees []Attendee) TournamentDetails {
	winner := header.Winner
	if winner == "" {
		winner = winnerFallback
	}
	location := geo.Resolve(header.City)

	return TournamentDetails{
		Name:          header.Name,
		Winner:        winner,
		NumAttendees:  len(attendees),
		AttendeesList: attendees,
		City:          header.City,
		CountryCode:   header.CountryCode,
		Department:    location.Department,
		Region:        location.Region,
		StartDate:     formatStartDate(header.StartAt),
		Slug:          header.Slug,
	}
}

// persistTournament is best effort: a storage failure is logged, never
// surfaced on the read path.
func (s *TournamentService) persistTournament(ctx context.Context, header UpstreamTournament, details TournamentDetails) {
	record := tournament.Tournament{
		ExternalID:   header.ID,
		Name:         details.Name,
		Slug:         details.Slug,
		City:         details.City,
		CountryCode:  details.CountryCode,
		Department:   details.Department,
		Region:       details.Region,
		Winner:       details.Winner,
		StartDate:    details.StartDate,
		NumAttendees: details.NumAttendees,
	}
	result, err := s.tournaments.Upsert(ctx, record)
	if err != nil {
		s.logger.WarnContext(ctx, "tournament upsert failed", "tournament_external_id", header.ID, "error", err)
		return
	}
	if result.Degraded {
		s.logger.WarnContext(ctx, "tournament upsert degraded by schema", "tournament_external_id", header.ID, "id", result.ID)
	}
}

// collectAttendees pages every participant and builds the entrant index in
// the same pass. Both outputs are call-local.
func collectAttendees(
	ctx context.Context,
	provider TournamentDataProvider,
	tournamentID int64,
	cfg TournamentServiceConfig,
) ([]Attendee, entrantIndex, error) {
	opts := paging.Options{
		PerPage: cfg.ParticipantsPerPage,
		Delay:   cfg.ParticipantsDelay,
	}
	participants, err := paging.Collect(ctx, opts, func(ctx context.Context, page int) (paging.Page[UpstreamParticipant], error) {
		return provider.TournamentParticipants(ctx, tournamentID, page, opts.PerPage)
	})
	if err != nil {
		return nil, nil, err
	}

	attendees := make([]Attendee, 0, len(participants))
	index := make(entrantIndex, len(participants))
	for _, participant := range participants {
		attendees = append(attendees, Attendee{
			ParticipantID: participant.ParticipantID,
			GamerTag:      participant.GamerTag,
			PlayerID:      participant.PlayerID,
		})
		for _, entrantID := range participant.EntrantIDs {
			index[entrantID] = participant.PlayerID
		}
	}

	return attendees, index, nil
}

// formatStartDate renders an epoch timestamp as an ISO calendar date. Values
// above the millisecond threshold are scaled down first. Zero or negative
// timestamps yield an empty string.
func formatStartDate(startAt int64) string {
	if startAt <= 0 {
		return ""
	}
	if startAt > millisecondThreshold {
		startAt /= 1000
	}
	return time.Unix(startAt, 0).UTC().Format("2006-01-02")
}
