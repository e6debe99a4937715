package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/memory"
)

func TestAuditCreateNormalizesLevel(t *testing.T) {
	t.Parallel()

	repo := memory.NewAuditLogRepository()
	svc := NewAuditService(repo, nil, nil)

	id, err := svc.Create(context.Background(), AuditEvent{
		Level:   "warning",
		Service: "tournaments",
		Message: "aggregation slow",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a generated id")
	}

	entries, err := svc.Search(context.Background(), auditlog.SearchFilter{Level: "WARNING"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(entries) != 1 || entries[0].Level != "WARNING" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatalf("timestamp must default to now")
	}
}

func TestAuditCreateRejectsInvalidLevel(t *testing.T) {
	t.Parallel()

	svc := NewAuditService(memory.NewAuditLogRepository(), nil, nil)
	_, err := svc.Create(context.Background(), AuditEvent{
		Level:   "VERBOSE",
		Service: "tournaments",
		Message: "nope",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestAuditCreateBulkIsAllOrNothing(t *testing.T) {
	t.Parallel()

	repo := memory.NewAuditLogRepository()
	svc := NewAuditService(repo, nil, nil)

	_, err := svc.CreateBulk(context.Background(), []AuditEvent{
		{Level: "INFO", Service: "players", Message: "ok"},
		{Level: "INFO", Service: "players"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("bad batch must store nothing, total=%d", stats.Total)
	}

	ids, err := svc.CreateBulk(context.Background(), []AuditEvent{
		{Level: "INFO", Service: "players", Message: "one"},
		{Level: "ERROR", Service: "players", Message: "two"},
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestAuditSearchFiltersAndLimits(t *testing.T) {
	t.Parallel()

	repo := memory.NewAuditLogRepository()
	svc := NewAuditService(repo, nil, nil)

	for i := 0; i < 60; i++ {
		service := "tournaments"
		if i%2 == 0 {
			service = "players"
		}
		if _, err := svc.Create(context.Background(), AuditEvent{
			Level:   "INFO",
			Service: service,
			Message: "synced batch",
		}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	byService, err := svc.Search(context.Background(), auditlog.SearchFilter{Service: "players", Limit: 1000})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byService) != 30 {
		t.Fatalf("service filter matched %d entries, want 30", len(byService))
	}

	capped, err := svc.Search(context.Background(), auditlog.SearchFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(capped) != defaultSearchLimit {
		t.Fatalf("default limit = %d entries, want %d", len(capped), defaultSearchLimit)
	}
}

func TestAuditStatsCountsByLevelAndService(t *testing.T) {
	t.Parallel()

	svc := NewAuditService(memory.NewAuditLogRepository(), nil, nil)
	seed := []AuditEvent{
		{Level: "INFO", Service: "tournaments", Message: "a"},
		{Level: "ERROR", Service: "tournaments", Message: "b"},
		{Level: "ERROR", Service: "players", Message: "c"},
	}
	for i, event := range seed {
		if _, err := svc.Create(context.Background(), event); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("total = %d", stats.Total)
	}
	if stats.ByLevel["ERROR"] != 2 || stats.ByLevel["INFO"] != 1 {
		t.Fatalf("by level = %v", stats.ByLevel)
	}
	if stats.ByService["tournaments"] != 2 {
		t.Fatalf("by service = %v", stats.ByService)
	}
}

func TestStoreAuditRecorderFillsDefaults(t *testing.T) {
	t.Parallel()

	repo := memory.NewAuditLogRepository()
	svc := NewAuditService(repo, nil, nil)
	recorder := NewStoreAuditRecorder(svc, "tournaments", nil)

	recorder.Record(context.Background(), AuditEvent{Message: "aggregated"})

	entries, err := svc.Search(context.Background(), auditlog.SearchFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Service != "tournaments" || entries[0].Level != "INFO" {
		t.Fatalf("defaults not applied: %+v", entries[0])
	}
}
