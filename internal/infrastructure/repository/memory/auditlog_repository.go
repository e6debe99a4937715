package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
)

type AuditLogRepository struct {
	mu      sync.RWMutex
	entries []auditlog.Entry
	ids     id.Generator
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{ids: id.NewRandomGenerator()}
}

func (r *AuditLogRepository) Insert(_ context.Context, entry auditlog.Entry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(entry)
}

func (r *AuditLogRepository) InsertBulk(_ context.Context, entries []auditlog.Entry) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		inserted, err := r.insertLocked(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, inserted)
	}
	return out, nil
}

func (r *AuditLogRepository) insertLocked(entry auditlog.Entry) (string, error) {
	if entry.ID == "" {
		generated, err := r.ids.NewID()
		if err != nil {
			return "", err
		}
		entry.ID = generated
	}
	r.entries = append(r.entries, entry)
	return entry.ID, nil
}

func (r *AuditLogRepository) Search(_ context.Context, filter auditlog.SearchFilter) ([]auditlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auditlog.Entry, 0, filter.Limit)
	for _, entry := range r.entries {
		if !matches(entry, filter) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *AuditLogRepository) Stats(_ context.Context) (auditlog.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := auditlog.Stats{
		Total:     int64(len(r.entries)),
		ByLevel:   make(map[string]int64),
		ByService: make(map[string]int64),
	}
	for _, entry := range r.entries {
		stats.ByLevel[entry.Level]++
		stats.ByService[entry.Service]++
	}

	return stats, nil
}

func matches(entry auditlog.Entry, filter auditlog.SearchFilter) bool {
	if filter.Service != "" && !strings.EqualFold(entry.Service, filter.Service) {
		return false
	}
	if filter.Level != "" && !strings.EqualFold(entry.Level, filter.Level) {
		return false
	}
	if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
		return false
	}
	if !filter.Until.IsZero() && entry.Timestamp.After(filter.Until) {
		return false
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(entry.Message), strings.ToLower(filter.Query)) {
		return false
	}
	return true
}
