package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/smashcolombia/startgg-stats/internal/domain/report"
	"github.com/smashcolombia/startgg-stats/internal/platform/id"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
)

// ReportRenderer turns a job payload into an artifact and returns its path.
// Concrete output formats live behind this interface.
type ReportRenderer interface {
	Render(ctx context.Context, job report.Job, payload map[string]any) (string, error)
}

// ReportService manages report jobs: submission, background generation on a
// worker pool, and a synchronous fallback when no pool is available.
type ReportService struct {
	jobs     report.Repository
	renderer ReportRenderer
	ids      id.Generator
	logger   *logging.Logger
	workers  *ants.Pool
}

func NewReportService(
	jobs report.Repository,
	renderer ReportRenderer,
	ids id.Generator,
	logger *logging.Logger,
	asyncWorkers int,
) (*ReportService, error) {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	service := &ReportService{
		jobs:     jobs,
		renderer: renderer,
		ids:      ids,
		logger:   logger,
	}
	if asyncWorkers > 0 {
		workers, err := ants.NewPool(asyncWorkers)
		if err != nil {
			return nil, fmt.Errorf("create report worker pool: %w", err)
		}
		service.workers = workers
	}

	return service, nil
}

// Close releases the worker pool. In-flight jobs finish; queued ones are
// dropped and stay pending.
func (s *ReportService) Close() {
	if s.workers != nil {
		s.workers.Release()
	}
}

// Submit registers a job and starts generation. With a worker pool the job
// is returned while still pending; without one (or when the pool refuses the
// task) generation runs synchronously and the returned job is terminal.
func (s *ReportService) Submit(ctx context.Context, reportType string, payload map[string]any) (report.Job, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.Submit")
	defer span.End()

	reportType = strings.ToLower(strings.TrimSpace(reportType))
	if err := report.ValidateType(reportType); err != nil {
		return report.Job{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(payload) == 0 {
		return report.Job{}, fmt.Errorf("%w: report payload is required", ErrInvalidInput)
	}

	jobID, err := s.ids.NewID()
	if err != nil {
		return report.Job{}, fmt.Errorf("generate report id: %w", err)
	}

	job := report.Job{
		ID:        jobID,
		Status:    report.StatusPending,
		Type:      reportType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return report.Job{}, fmt.Errorf("create report job: %w", err)
	}

	if s.workers != nil {
		background := context.WithoutCancel(ctx)
		if submitErr := s.workers.Submit(func() {
			s.generate(background, job, payload)
		}); submitErr == nil {
			return job, nil
		}
		s.logger.WarnContext(ctx, "report pool refused task, generating synchronously", "job_id", job.ID)
	}

	s.generate(ctx, job, payload)
	return s.Status(ctx, job.ID)
}

// Status returns the current state of a job.
func (s *ReportService) Status(ctx context.Context, jobID string) (report.Job, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.Status")
	defer span.End()

	if strings.TrimSpace(jobID) == "" {
		return report.Job{}, fmt.Errorf("%w: report id is required", ErrInvalidInput)
	}

	job, ok, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return report.Job{}, fmt.Errorf("load report job: %w", err)
	}
	if !ok {
		return report.Job{}, fmt.Errorf("%w: report %s", ErrNotFound, jobID)
	}

	return job, nil
}

// ArtifactPath returns the rendered file location for a ready job.
func (s *ReportService) ArtifactPath(ctx context.Context, jobID string) (string, error) {
	job, err := s.Status(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != report.StatusReady {
		return "", fmt.Errorf("%w: report %s is %s", ErrNotFound, jobID, job.Status)
	}
	return job.Path, nil
}

// generate moves the job to exactly one terminal state.
func (s *ReportService) generate(ctx context.Context, job report.Job, payload map[string]any) {
	path, err := s.renderer.Render(ctx, job, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "report generation failed", "job_id", job.ID, "type", job.Type, "error", err)
		if markErr := s.jobs.MarkError(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.ErrorContext(ctx, "report job could not be marked failed", "job_id", job.ID, "error", markErr)
		}
		return
	}

	if markErr := s.jobs.MarkReady(ctx, job.ID, path); markErr != nil {
		s.logger.ErrorContext(ctx, "report job could not be marked ready", "job_id", job.ID, "error", markErr)
		return
	}
	s.logger.InfoContext(ctx, "report generated", "job_id", job.ID, "type", job.Type, "path", path)
}
