package report

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

var allowedTypes = map[string]struct{}{
	"tournament": {},
	"players":    {},
	"sets":       {},
	"generic":    {},
}

// Job tracks one report generation request. A job leaves pending exactly
// once, to ready or error, and never returns.
type Job struct {
	ID        string
	Status    Status
	Type      string
	CreatedAt time.Time
	// Path is the rendered artifact location, set only on ready.
	Path string
	// Error carries the failure message, set only on error.
	Error string
}

func ValidateType(reportType string) error {
	if _, ok := allowedTypes[strings.ToLower(strings.TrimSpace(reportType))]; !ok {
		return fmt.Errorf("invalid report type: %s", reportType)
	}
	return nil
}
