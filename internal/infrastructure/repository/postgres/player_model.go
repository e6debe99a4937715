package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	ExternalID   int64          `db:"external_id"`
	GamerTag     string         `db:"gamer_tag"`
	Prefix       string         `db:"prefix"`
	UserSlug     string         `db:"user_slug"`
	City         string         `db:"city"`
	State        string         `db:"state"`
	Country      string         `db:"country"`
	Department   string         `db:"department"`
	Region       string         `db:"region"`
	Twitter      string         `db:"twitter"`
	Discord      string         `db:"discord"`
	Twitch       string         `db:"twitch"`
	TournamentID sql.NullString `db:"tournament_public_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
