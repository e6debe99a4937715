package usecase

import (
	"reflect"
	"testing"
)

func TestSplitNameScoreSponsorPrefix(t *testing.T) {
	t.Parallel()

	raw := UpstreamSet{DisplayScore: "Player A | Foo 2 - Player B | Bar 1"}
	normalized := normalizeSet(raw, nil)

	if normalized.Player1Name != "Foo" || normalized.Player1Score != "2" {
		t.Fatalf("player1 = %q/%q, want Foo/2", normalized.Player1Name, normalized.Player1Score)
	}
	if normalized.Player2Name != "Bar" || normalized.Player2Score != "1" {
		t.Fatalf("player2 = %q/%q, want Bar/1", normalized.Player2Name, normalized.Player2Score)
	}
}

func TestNormalizeSetWithoutDelimiter(t *testing.T) {
	t.Parallel()

	normalized := normalizeSet(UpstreamSet{DisplayScore: "DQ"}, nil)
	if normalized.Player1Name != "DQ" || normalized.Player1Score != "" {
		t.Fatalf("player1 = %q/%q, want DQ with empty score", normalized.Player1Name, normalized.Player1Score)
	}
	if normalized.Player2Name != "" || normalized.Player2Score != "" {
		t.Fatalf("player2 should stay empty, got %q/%q", normalized.Player2Name, normalized.Player2Score)
	}
}

func TestPhaseLabelFallbacks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		phaseName  string
		identifier string
		want       string
	}{
		{name: "phase name wins", phaseName: "Top 8", identifier: "A", want: "Top 8"},
		{name: "identifier fallback", identifier: "A", want: "A"},
		{name: "placeholder fallback", want: "Unknown"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			normalized := normalizeSet(UpstreamSet{
				PhaseName:       tc.phaseName,
				PhaseIdentifier: tc.identifier,
			}, nil)
			if normalized.PhaseName != tc.want {
				t.Fatalf("phase = %q, want %q", normalized.PhaseName, tc.want)
			}
		})
	}
}

func TestNormalizeSetCharacterOrderPreserved(t *testing.T) {
	t.Parallel()

	raw := UpstreamSet{
		SlotEntrantIDs: []int64{7001, 7002},
		Games: []UpstreamGame{
			{Selections: []UpstreamSelection{
				{EntrantID: 7001, CharacterID: 5},
				{EntrantID: 7002, CharacterID: 12},
			}},
			{Selections: []UpstreamSelection{
				{EntrantID: 7001, CharacterID: 5},
				{EntrantID: 7002, CharacterID: 13},
			}},
			{Selections: []UpstreamSelection{
				{EntrantID: 7001, CharacterID: 7},
				{EntrantID: 9999, CharacterID: 99},
			}},
		},
	}

	normalized := normalizeSet(raw, nil)
	if !reflect.DeepEqual(normalized.Player1Characters, []int64{5, 5, 7}) {
		t.Fatalf("player1 characters = %v, want [5 5 7]", normalized.Player1Characters)
	}
	if !reflect.DeepEqual(normalized.Player2Characters, []int64{12, 13}) {
		t.Fatalf("player2 characters = %v, want [12 13]", normalized.Player2Characters)
	}
}

func TestNormalizeSetResolvesPlayersThroughIndex(t *testing.T) {
	t.Parallel()

	linked := int64(9001)
	idx := entrantIndex{
		7001: &linked,
		7002: nil, // unlinked account, kept in the index
	}

	raw := UpstreamSet{SlotEntrantIDs: []int64{7001, 7002}}
	normalized := normalizeSet(raw, idx)

	if normalized.Player1ID == nil || *normalized.Player1ID != 9001 {
		t.Fatalf("player1 id = %v, want 9001", normalized.Player1ID)
	}
	if normalized.Player2ID != nil {
		t.Fatalf("player2 id should stay nil for an unlinked account")
	}

	// Entrants missing from the index resolve to nil too.
	missing := normalizeSet(UpstreamSet{SlotEntrantIDs: []int64{8888}}, idx)
	if missing.Player1ID != nil {
		t.Fatalf("missing index entries must yield an unresolved player")
	}
}
