package postgres

import (
	"database/sql"
	"time"
)

type reportJobTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Status       string         `db:"status"`
	Type         string         `db:"report_type"`
	CreatedAt    time.Time      `db:"created_at"`
	Path         sql.NullString `db:"artifact_path"`
	ErrorMessage sql.NullString `db:"error_message"`
}
