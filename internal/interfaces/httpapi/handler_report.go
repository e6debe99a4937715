package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/domain/report"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

type submitReportRequest struct {
	Type    string         `json:"type" validate:"required,max=32"`
	Payload map[string]any `json:"payload" validate:"required"`
}

type reportJobDTO struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Error     string    `json:"error,omitempty"`
}

func reportJobToDTO(job report.Job) reportJobDTO {
	return reportJobDTO{
		ID:        job.ID,
		Status:    string(job.Status),
		Type:      job.Type,
		CreatedAt: job.CreatedAt,
		Error:     job.Error,
	}
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitReport")
	defer span.End()

	var payload submitReportRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed report payload", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	job, err := h.reportService.Submit(ctx, payload.Type, payload.Payload)
	if err != nil {
		h.logger.WarnContext(ctx, "submit report failed", "report_type", payload.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, reportJobToDTO(job))
}

func (h *Handler) GetReportStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReportStatus")
	defer span.End()

	reportID := r.PathValue("reportID")
	job, err := h.reportService.Status(ctx, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "get report status failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportJobToDTO(job))
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DownloadReport")
	defer span.End()

	reportID := r.PathValue("reportID")
	artifactPath, err := h.reportService.ArtifactPath(ctx, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "download report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(artifactPath)))
	http.ServeFile(w, r, artifactPath)
}
