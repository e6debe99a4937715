package postgres

import (
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
)

type auditLogTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Timestamp time.Time `db:"ts"`
	Level     string    `db:"level"`
	Service   string    `db:"service"`
	Message   string    `db:"message"`
	Meta      []byte    `db:"meta"`
}

func auditEntryFromRow(row auditLogTableModel) auditlog.Entry {
	entry := auditlog.Entry{
		ID:        row.PublicID,
		Timestamp: row.Timestamp,
		Level:     row.Level,
		Service:   row.Service,
		Message:   row.Message,
	}
	if len(row.Meta) > 0 {
		var meta map[string]any
		if err := sonic.Unmarshal(row.Meta, &meta); err == nil {
			entry.Meta = meta
		}
	}
	return entry
}
