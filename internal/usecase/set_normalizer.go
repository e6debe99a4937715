package usecase

import (
	"strings"

	"github.com/smashcolombia/startgg-stats/internal/domain/set"
)

// entrantIndex maps entrant ids to player ids for one tournament. Entries
// with a nil player id are kept so unlinked accounts are only looked up once.
// The index is owned by a single aggregation call and never outlives it.
type entrantIndex map[int64]*int64

func (idx entrantIndex) resolve(entrantID int64) *int64 {
	if idx == nil {
		return nil
	}
	return idx[entrantID]
}

// normalizeSet flattens a raw bracket set into its stored shape. The display
// score split on " - " is inherited from the upstream display format: a name
// containing that substring will misparse, which is accepted.
func normalizeSet(raw UpstreamSet, idx entrantIndex) set.NormalizedSet {
	out := set.NormalizedSet{
		SetID:          raw.ID,
		EventName:      raw.EventName,
		TournamentName: raw.TournamentName,
		PhaseName:      phaseLabel(raw),
	}

	half1, half2 := splitDisplayScore(raw.DisplayScore)
	out.Player1Name, out.Player1Score = splitNameScore(half1)
	out.Player2Name, out.Player2Score = splitNameScore(half2)

	var entrant1, entrant2 int64
	if len(raw.SlotEntrantIDs) > 0 {
		entrant1 = raw.SlotEntrantIDs[0]
		out.Player1ID = idx.resolve(entrant1)
	}
	if len(raw.SlotEntrantIDs) > 1 {
		entrant2 = raw.SlotEntrantIDs[1]
		out.Player2ID = idx.resolve(entrant2)
	}

	for _, game := range raw.Games {
		for _, selection := range game.Selections {
			switch {
			case entrant1 != 0 && selection.EntrantID == entrant1:
				out.Player1Characters = append(out.Player1Characters, selection.CharacterID)
			case entrant2 != 0 && selection.EntrantID == entrant2:
				out.Player2Characters = append(out.Player2Characters, selection.CharacterID)
			}
			// Selections matching neither slot are dropped.
		}
	}

	return out
}

func phaseLabel(raw UpstreamSet) string {
	if name := strings.TrimSpace(raw.PhaseName); name != "" {
		return name
	}
	if identifier := strings.TrimSpace(raw.PhaseIdentifier); identifier != "" {
		return identifier
	}
	return set.PhaseFallback
}

// splitDisplayScore cuts "Foo 2 - Bar 1" into its halves. Without the
// delimiter the whole string becomes the first half.
func splitDisplayScore(displayScore string) (string, string) {
	half1, half2, found := strings.Cut(displayScore, " - ")
	if !found {
		return displayScore, ""
	}
	return half1, half2
}

// splitNameScore separates the trailing score from the name in one half of a
// display score, then strips any "Sponsor | " prefix from the name.
func splitNameScore(half string) (string, string) {
	half = strings.TrimSpace(half)
	if half == "" {
		return "", ""
	}

	name := half
	score := ""
	if cut := strings.LastIndex(half, " "); cut >= 0 {
		name = half[:cut]
		score = half[cut+1:]
	}

	if pipe := strings.LastIndex(name, "|"); pipe >= 0 {
		name = name[pipe+1:]
	}

	return strings.TrimSpace(name), strings.TrimSpace(score)
}
