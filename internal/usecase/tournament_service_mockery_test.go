package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	tournamentmock "github.com/smashcolombia/startgg-stats/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/mock"
)

func TestTournamentService_GetTournamentDetails_PersistsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := tournamentmock.NewRepository(t)

	provider := &fakeProvider{
		tournament: func(_ context.Context, tournamentID int64) (UpstreamTournament, error) {
			return UpstreamTournament{
				ID:          tournamentID,
				Name:        "Torneo Capital",
				Slug:        "tournament/torneo-capital",
				City:        "Bogota",
				CountryCode: "CO",
				StartAt:     1700000000,
				Winner:      "Ruben",
			}, nil
		},
		participants: pagedParticipants([]int{2}),
	}

	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(record tournament.Tournament) bool {
			return record.ExternalID == 42 &&
				record.Name == "Torneo Capital" &&
				record.NumAttendees == 2 &&
				record.StartDate == "2023-11-14"
		})).
		Return(tournament.UpsertResult{ID: "t-1", Created: true}, nil).
		Once()

	service := NewTournamentService(provider, repo, nil, nil, testServiceConfig())

	details, err := service.GetTournamentDetails(ctx, 42)
	if err != nil {
		t.Fatalf("get tournament details: %v", err)
	}
	if details.NumAttendees != 2 {
		t.Fatalf("expected 2 attendees, got %d", details.NumAttendees)
	}
}

func TestTournamentService_GetTournamentDetails_StorageFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	repo := tournamentmock.NewRepository(t)

	provider := &fakeProvider{
		tournament: func(_ context.Context, tournamentID int64) (UpstreamTournament, error) {
			return UpstreamTournament{ID: tournamentID, Name: "Torneo Capital", City: "Cali"}, nil
		},
		participants: pagedParticipants([]int{1}),
	}

	repo.
		On("Upsert", mock.Anything, mock.Anything).
		Return(tournament.UpsertResult{}, errors.New("connection refused")).
		Once()

	service := NewTournamentService(provider, repo, nil, nil, testServiceConfig())

	details, err := service.GetTournamentDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected storage failure to stay off the read path, got %v", err)
	}
	if details.Name != "Torneo Capital" {
		t.Fatalf("unexpected name %q", details.Name)
	}
}
