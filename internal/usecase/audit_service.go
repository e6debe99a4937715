package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

// AuditEvent is an audit record emitted by another service in this process.
// Service is filled in by the recorder when empty.
type AuditEvent struct {
	Timestamp *time.Time
	Level     string
	Service   string
	Message   string
	Meta      map[string]any
}

// AuditRecorder is the fire-and-forget side of auditing: recording must
// never fail the operation being audited.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

type nopAuditRecorder struct{}

func (nopAuditRecorder) Record(context.Context, AuditEvent) {}

func NewNopAuditRecorder() AuditRecorder {
	return nopAuditRecorder{}
}

// AuditService ingests and searches structured audit entries.
type AuditService struct {
	entries auditlog.Repository
	ids     id.Generator
	logger  *logging.Logger
}

func NewAuditService(entries auditlog.Repository, ids id.Generator, logger *logging.Logger) *AuditService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditService{
		entries: entries,
		ids:     ids,
		logger:  logger,
	}
}

func (s *AuditService) buildEntry(event AuditEvent) (auditlog.Entry, error) {
	timestamp := time.Now().UTC()
	if event.Timestamp != nil {
		timestamp = event.Timestamp.UTC()
	}

	entry := auditlog.Entry{
		Timestamp: timestamp,
		Level:     strings.ToUpper(strings.TrimSpace(event.Level)),
		Service:   strings.TrimSpace(event.Service),
		Message:   strings.TrimSpace(event.Message),
		Meta:      event.Meta,
	}
	if err := entry.Validate(); err != nil {
		return auditlog.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	generated, err := s.ids.NewID()
	if err != nil {
		return auditlog.Entry{}, fmt.Errorf("generate audit id: %w", err)
	}
	entry.ID = generated

	return entry, nil
}

// Create stores one entry and returns its id.
func (s *AuditService) Create(ctx context.Context, event AuditEvent) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "AuditService.Create")
	defer span.End()

	entry, err := s.buildEntry(event)
	if err != nil {
		return "", err
	}

	return s.entries.Insert(ctx, entry)
}

// CreateBulk validates the whole batch before storing anything; one bad
// entry rejects the batch.
func (s *AuditService) CreateBulk(ctx context.Context, events []AuditEvent) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "AuditService.CreateBulk")
	defer span.End()

	if len(events) == 0 {
		return nil, fmt.Errorf("%w: bulk payload is empty", ErrInvalidInput)
	}

	entries := make([]auditlog.Entry, 0, len(events))
	for i, event := range events {
		entry, err := s.buildEntry(event)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return s.entries.InsertBulk(ctx, entries)
}

func (s *AuditService) Search(ctx context.Context, filter auditlog.SearchFilter) ([]auditlog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "AuditService.Search")
	defer span.End()

	filter.Level = strings.ToUpper(strings.TrimSpace(filter.Level))
	filter.Service = strings.TrimSpace(filter.Service)
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit < 1 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}

	return s.entries.Search(ctx, filter)
}

func (s *AuditService) Stats(ctx context.Context) (auditlog.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "AuditService.Stats")
	defer span.End()

	return s.entries.Stats(ctx)
}

// storeAuditRecorder writes events straight into the local audit store.
type storeAuditRecorder struct {
	audit       *AuditService
	serviceName string
	logger      *logging.Logger
}

func NewStoreAuditRecorder(audit *AuditService, serviceName string, logger *logging.Logger) AuditRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &storeAuditRecorder{
		audit:       audit,
		serviceName: serviceName,
		logger:      logger,
	}
}

func (r *storeAuditRecorder) Record(ctx context.Context, event AuditEvent) {
	if r.audit == nil {
		return
	}
	if event.Service == "" {
		event.Service = r.serviceName
	}
	if event.Level == "" {
		event.Level = "INFO"
	}
	if _, err := r.audit.Create(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "audit record dropped", "service", event.Service, "error", err)
	}
}
