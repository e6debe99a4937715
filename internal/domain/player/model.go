package player

import "fmt"

// Player is a competitor profile synced from start.gg. TournamentID is the
// internal id of the tournament the profile was last seen at; it may be nil
// when the relation is unknown or the schema is degraded.
type Player struct {
	ID           string
	ExternalID   int64
	GamerTag     string
	Prefix       string
	UserSlug     string
	City         string
	State        string
	Country      string
	Department   string
	Region       string
	Twitter      string
	Discord      string
	Twitch       string
	TournamentID *string
}

func (p Player) Validate() error {
	if p.ExternalID <= 0 && p.GamerTag == "" {
		return fmt.Errorf("player needs an external id or gamer tag")
	}
	return nil
}
