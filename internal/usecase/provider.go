package usecase

import (
	"context"

	"github.com/smashcolombia/startgg-stats/internal/platform/paging"
)

// UpstreamTournament is the tournament header as returned by start.gg,
// including the first-place entrant of the headline event when standings are
// available.
type UpstreamTournament struct {
	ID          int64
	Name        string
	Slug        string
	City        string
	CountryCode string
	StartAt     int64
	Winner      string
	EventIDs    []int64
}

// UpstreamParticipant is one tournament registration. PlayerID is nil for
// registrations without a linked player account. A participant carries one
// entrant id per event entered.
type UpstreamParticipant struct {
	ParticipantID int64
	GamerTag      string
	PlayerID      *int64
	EntrantIDs    []int64
}

type UpstreamSelection struct {
	EntrantID   int64
	CharacterID int64
}

type UpstreamGame struct {
	Selections []UpstreamSelection
}

// UpstreamSet is a raw bracket set node. SlotEntrantIDs preserves slot order
// and Games preserves the order games were played in.
type UpstreamSet struct {
	ID              int64
	DisplayScore    string
	PhaseName       string
	PhaseIdentifier string
	EventName       string
	TournamentName  string
	SlotEntrantIDs  []int64
	Games           []UpstreamGame
}

type UpstreamPlayer struct {
	ID       int64
	GamerTag string
	Prefix   string
	UserSlug string
	City     string
	State    string
	Country  string
	Twitter  string
	Discord  string
	Twitch   string
}

type UpstreamTournamentSummary struct {
	ID          int64
	Name        string
	Slug        string
	City        string
	CountryCode string
	StartAt     int64
}

// TournamentDataProvider is the read surface of the start.gg API this service
// depends on. Implementations classify their failures with the startgg error
// taxonomy and report absent entities via ErrNotFound.
type TournamentDataProvider interface {
	Tournament(ctx context.Context, tournamentID int64) (UpstreamTournament, error)
	TournamentParticipants(ctx context.Context, tournamentID int64, page, perPage int) (paging.Page[UpstreamParticipant], error)
	TournamentIDForEvent(ctx context.Context, eventID int64) (int64, error)
	EventIDForSlug(ctx context.Context, slug string) (int64, error)
	EventSets(ctx context.Context, eventID int64, page, perPage int) (paging.Page[UpstreamSet], error)
	SetByID(ctx context.Context, setID int64) (UpstreamSet, error)
	Player(ctx context.Context, playerID int64) (UpstreamPlayer, error)
	TournamentsByCountry(ctx context.Context, countryCode string, page, perPage int) (paging.Page[UpstreamTournamentSummary], error)
}
