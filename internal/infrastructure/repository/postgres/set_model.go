package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type setTableModel struct {
	ID                int64         `db:"id"`
	PublicID          string        `db:"public_id"`
	ExternalID        int64         `db:"external_id"`
	Player1ID         sql.NullInt64 `db:"player1_id"`
	Player2ID         sql.NullInt64 `db:"player2_id"`
	Player1Name       string        `db:"player1_name"`
	Player1Score      string        `db:"player1_score"`
	Player2Name       string        `db:"player2_name"`
	Player2Score      string        `db:"player2_score"`
	PhaseName         string        `db:"phase_name"`
	EventName         string        `db:"event_name"`
	TournamentName    string        `db:"tournament_name"`
	Player1Characters pq.Int64Array `db:"player1_characters"`
	Player2Characters pq.Int64Array `db:"player2_characters"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}
