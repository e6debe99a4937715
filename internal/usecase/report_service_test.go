package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/smashcolombia/startgg-stats/internal/domain/report"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/reportrender"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/memory"
)

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, report.Job, map[string]any) (string, error) {
	return "", errors.New("disk is full of brackets")
}

func TestReportSubmitSynchronousFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc, err := NewReportService(memory.NewReportRepository(), reportrender.NewJSONRenderer(dir), nil, nil, 0)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	job, err := svc.Submit(context.Background(), "Tournament", map[string]any{"tournamentId": 1001})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != report.StatusReady {
		t.Fatalf("synchronous submit must return a terminal job, got %s", job.Status)
	}
	if job.Type != "tournament" {
		t.Fatalf("type must be normalized, got %q", job.Type)
	}

	path, err := svc.ArtifactPath(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("artifact path: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(raw), "tournamentId") {
		t.Fatalf("artifact missing payload: %s", raw)
	}
}

func TestReportSubmitRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc, err := NewReportService(memory.NewReportRepository(), reportrender.NewJSONRenderer(t.TempDir()), nil, nil, 0)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if _, err := svc.Submit(context.Background(), "pdf", map[string]any{"x": 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown type: got=%v", err)
	}
	if _, err := svc.Submit(context.Background(), "sets", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty payload: got=%v", err)
	}
}

func TestReportGenerationFailureIsTerminal(t *testing.T) {
	t.Parallel()

	repo := memory.NewReportRepository()
	svc, err := NewReportService(repo, failingRenderer{}, nil, nil, 0)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	job, err := svc.Submit(context.Background(), "players", map[string]any{"tournamentId": 1001})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != report.StatusError {
		t.Fatalf("status = %s, want error", job.Status)
	}
	if job.Error == "" {
		t.Fatalf("failure message must be recorded")
	}

	if _, err := svc.ArtifactPath(context.Background(), job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed job must have no artifact, got=%v", err)
	}
	if err := repo.MarkReady(context.Background(), job.ID, "late.json"); err == nil {
		t.Fatalf("terminal job must refuse a second transition")
	}
}

func TestReportStatusUnknownJob(t *testing.T) {
	t.Parallel()

	svc, err := NewReportService(memory.NewReportRepository(), failingRenderer{}, nil, nil, 0)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if _, err := svc.Status(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
	if _, err := svc.Status(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
