package set

// NormalizedSet is the flat record derived from a raw bracket set node.
// Player ids are nil when the entrant could not be resolved to a player
// account. Character slices preserve game order, duplicates included.
type NormalizedSet struct {
	SetID             int64
	Player1ID         *int64
	Player2ID         *int64
	Player1Name       string
	Player1Score      string
	Player2Name       string
	Player2Score      string
	PhaseName         string
	EventName         string
	TournamentName    string
	Player1Characters []int64
	Player2Characters []int64
}

// PhaseFallback is the phase label used when a set carries neither a phase
// name nor a display identifier.
const PhaseFallback = "Unknown"
