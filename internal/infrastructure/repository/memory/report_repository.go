package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/smashcolombia/startgg-stats/internal/domain/report"
)

type ReportRepository struct {
	mu   sync.RWMutex
	jobs map[string]report.Job
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{jobs: make(map[string]report.Job)}
}

func (r *ReportRepository) Create(_ context.Context, job report.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return fmt.Errorf("report job %s already exists", job.ID)
	}
	r.jobs[job.ID] = job

	return nil
}

func (r *ReportRepository) Get(_ context.Context, jobID string) (report.Job, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return report.Job{}, false, nil
	}
	return job, true, nil
}

func (r *ReportRepository) MarkReady(_ context.Context, jobID string, path string) error {
	return r.finish(jobID, func(job *report.Job) {
		job.Status = report.StatusReady
		job.Path = path
	})
}

func (r *ReportRepository) MarkError(_ context.Context, jobID string, message string) error {
	return r.finish(jobID, func(job *report.Job) {
		job.Status = report.StatusError
		job.Error = message
	})
}

// finish enforces the single pending-to-terminal transition.
func (r *ReportRepository) finish(jobID string, apply func(*report.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("report job %s does not exist", jobID)
	}
	if job.Status != report.StatusPending {
		return fmt.Errorf("report %s already %s", jobID, job.Status)
	}
	apply(&job)
	r.jobs[jobID] = job

	return nil
}
