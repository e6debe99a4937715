package postgres

import "time"

type tournamentTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	ExternalID   int64     `db:"external_id"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	City         string    `db:"city"`
	CountryCode  string    `db:"country_code"`
	Department   string    `db:"department"`
	Region       string    `db:"region"`
	Winner       string    `db:"winner"`
	StartDate    string    `db:"start_date"`
	NumAttendees int       `db:"num_attendees"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
