package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/smashcolombia/startgg-stats/internal/domain/set"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/paging"
)

// SetDetails is a normalized set as served over HTTP. Character ids keep the
// order the games were played in; names are resolved from the static roster
// table.
type SetDetails struct {
	SetID                 int64    `json:"setId"`
	Player1ID             *int64   `json:"player1Id"`
	Player2ID             *int64   `json:"player2Id"`
	Player1Name           string   `json:"player1Name"`
	Player1Score          string   `json:"player1Score"`
	Player2Name           string   `json:"player2Name"`
	Player2Score          string   `json:"player2Score"`
	PhaseName             string   `json:"phaseName"`
	EventName             string   `json:"eventName"`
	TournamentName        string   `json:"tournamentName"`
	Player1Characters     []int64  `json:"player1Characters"`
	Player2Characters     []int64  `json:"player2Characters"`
	Player1CharacterNames []string `json:"player1CharacterNames"`
	Player2CharacterNames []string `json:"player2CharacterNames"`
}

// EventService serves bracket sets for an event and resolves event ids from
// start.gg URLs.
type EventService struct {
	provider TournamentDataProvider
	sets     set.Repository
	logger   *logging.Logger
	cfg      TournamentServiceConfig
}

func NewEventService(provider TournamentDataProvider, sets set.Repository, logger *logging.Logger, cfg TournamentServiceConfig) *EventService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventService{
		provider: provider,
		sets:     sets,
		logger:   logger,
		cfg:      normalizeTournamentServiceConfig(cfg),
	}
}

// GetEventSets collects and normalizes every set of an event. The entrant
// index is built from the owning tournament's participants first; any page
// failure in either collection aborts the call.
func (s *EventService) GetEventSets(ctx context.Context, eventID int64) ([]SetDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.GetEventSets")
	defer span.End()

	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id must be greater than zero", ErrInvalidInput)
	}

	tournamentID, err := s.provider.TournamentIDForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	_, index, err := collectAttendees(ctx, s.provider, tournamentID, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("collect attendees tournament_id=%d: %w", tournamentID, err)
	}

	opts := paging.Options{
		PerPage: s.cfg.SetsPerPage,
		Delay:   s.cfg.SetsDelay,
	}
	rawSets, err := paging.Collect(ctx, opts, func(ctx context.Context, page int) (paging.Page[UpstreamSet], error) {
		return s.provider.EventSets(ctx, eventID, page, opts.PerPage)
	})
	if err != nil {
		return nil, fmt.Errorf("collect sets event_id=%d: %w", eventID, err)
	}

	out := make([]SetDetails, 0, len(rawSets))
	for _, raw := range rawSets {
		normalized := normalizeSet(raw, index)
		if s.sets != nil {
			if _, upsertErr := s.sets.Upsert(ctx, normalized); upsertErr != nil {
				s.logger.WarnContext(ctx, "set upsert failed", "set_id", normalized.SetID, "error", upsertErr)
			}
		}
		out = append(out, presentSet(normalized))
	}

	return out, nil
}

// GetSetByID fetches and normalizes a single set. Without the tournament
// context there is no entrant index, so player ids stay unresolved.
func (s *EventService) GetSetByID(ctx context.Context, setID int64) (SetDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.GetSetByID")
	defer span.End()

	if setID <= 0 {
		return SetDetails{}, fmt.Errorf("%w: set id must be greater than zero", ErrInvalidInput)
	}

	raw, err := s.provider.SetByID(ctx, setID)
	if err != nil {
		return SetDetails{}, err
	}

	return presentSet(normalizeSet(raw, nil)), nil
}

// ResolveEventID turns a start.gg event URL (or an already-parsed slug) into
// the event's numeric id.
func (s *EventService) ResolveEventID(ctx context.Context, rawURL string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.ResolveEventID")
	defer span.End()

	slug, err := parseEventSlug(rawURL)
	if err != nil {
		return 0, err
	}

	return s.provider.EventIDForSlug(ctx, slug)
}

func presentSet(normalized set.NormalizedSet) SetDetails {
	return SetDetails{
		SetID:                 normalized.SetID,
		Player1ID:             normalized.Player1ID,
		Player2ID:             normalized.Player2ID,
		Player1Name:           normalized.Player1Name,
		Player1Score:          normalized.Player1Score,
		Player2Name:           normalized.Player2Name,
		Player2Score:          normalized.Player2Score,
		PhaseName:             normalized.PhaseName,
		EventName:             normalized.EventName,
		TournamentName:        normalized.TournamentName,
		Player1Characters:     normalized.Player1Characters,
		Player2Characters:     normalized.Player2Characters,
		Player1CharacterNames: characterNames(normalized.Player1Characters),
		Player2CharacterNames: characterNames(normalized.Player2Characters),
	}
}

func characterNames(ids []int64) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, characterID := range ids {
		names = append(names, set.CharacterName(characterID))
	}
	return names
}

// parseEventSlug extracts "tournament/<t>/event/<e>" from a start.gg URL.
// A value already in that form passes through unchanged.
func parseEventSlug(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: event url is required", ErrInvalidInput)
	}

	path := trimmed
	if strings.Contains(trimmed, "://") {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: malformed event url", ErrInvalidInput)
		}
		path = parsed.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if segment != "tournament" {
			continue
		}
		if i+3 < len(segments) && segments[i+2] == "event" {
			return strings.Join(segments[i:i+4], "/"), nil
		}
		break
	}

	return "", fmt.Errorf("%w: url does not reference a tournament event", ErrInvalidInput)
}
