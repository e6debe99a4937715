package tournament

import "fmt"

// Tournament is an aggregated tournament record derived from start.gg plus
// the geographic enrichment for Colombian cities.
type Tournament struct {
	ID          string
	ExternalID  int64
	Name        string
	Slug        string
	City        string
	CountryCode string
	Department  string
	Region      string
	Winner      string
	// StartDate is the ISO calendar date (2006-01-02), empty when the
	// upstream timestamp was missing.
	StartDate    string
	NumAttendees int
}

func (t Tournament) Validate() error {
	if t.ExternalID <= 0 && t.Slug == "" && t.Name == "" {
		return fmt.Errorf("tournament needs an external id, slug or name")
	}
	return nil
}
