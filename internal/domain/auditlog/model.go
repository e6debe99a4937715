package auditlog

import (
	"fmt"
	"strings"
	"time"
)

var allowedLevels = map[string]struct{}{
	"DEBUG":    {},
	"INFO":     {},
	"WARNING":  {},
	"ERROR":    {},
	"CRITICAL": {},
}

// Entry is one structured audit event. Entries are append-only: no update or
// delete operation exists on the store.
type Entry struct {
	ID        string
	Timestamp time.Time
	Level     string
	Service   string
	Message   string
	Meta      map[string]any
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Service) == "" {
		return fmt.Errorf("audit entry service is required")
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Errorf("audit entry message is required")
	}
	if _, ok := allowedLevels[strings.ToUpper(e.Level)]; !ok {
		return fmt.Errorf("invalid audit level: %s", e.Level)
	}
	return nil
}

// SearchFilter narrows an audit search. Zero values mean "no constraint".
type SearchFilter struct {
	Service string
	Level   string
	Since   time.Time
	Until   time.Time
	Query   string
	Limit   int
}

// Stats summarizes the stored entries.
type Stats struct {
	Total     int64
	ByLevel   map[string]int64
	ByService map[string]int64
}
