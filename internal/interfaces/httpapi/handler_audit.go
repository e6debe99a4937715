package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

type auditLogRequest struct {
	Timestamp string         `json:"timestamp" validate:"omitempty"`
	Level     string         `json:"level" validate:"required,max=16"`
	Service   string         `json:"service" validate:"required,max=64"`
	Message   string         `json:"message" validate:"required,max=4096"`
	Meta      map[string]any `json:"meta"`
}

type auditLogBulkRequest struct {
	Logs []auditLogRequest `json:"logs" validate:"required,min=1,max=500,dive"`
}

func (h *Handler) CreateAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAuditLog")
	defer span.End()

	var payload auditLogRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed audit payload", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := auditEventFromRequest(payload)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	attachClientIP(&event, resolveClientIP(ctx, r))

	id, err := h.auditService.Create(ctx, event)
	if err != nil {
		h.logger.WarnContext(ctx, "create audit log failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) CreateAuditLogsBulk(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAuditLogsBulk")
	defer span.End()

	var payload auditLogBulkRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed audit payload", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	clientIP := resolveClientIP(ctx, r)
	events := make([]usecase.AuditEvent, 0, len(payload.Logs))
	for _, item := range payload.Logs {
		event, err := auditEventFromRequest(item)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		attachClientIP(&event, clientIP)
		events = append(events, event)
	}

	ids, err := h.auditService.CreateBulk(ctx, events)
	if err != nil {
		h.logger.WarnContext(ctx, "create audit logs bulk failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{"ids": ids, "count": len(ids)})
}

func (h *Handler) SearchAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchAuditLogs")
	defer span.End()

	query := r.URL.Query()
	filter := auditlog.SearchFilter{
		Service: query.Get("service"),
		Level:   query.Get("level"),
		Query:   query.Get("q"),
		Limit:   queryInt(r, "limit", 0),
	}

	var err error
	if filter.Since, err = parseTimeParam(query.Get("since")); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.Until, err = parseTimeParam(query.Get("until")); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.auditService.Search(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "search audit logs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]auditLogDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, auditLogToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetAuditStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuditStats")
	defer span.End()

	stats, err := h.auditService.Stats(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get audit stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"total":     stats.Total,
		"byLevel":   stats.ByLevel,
		"byService": stats.ByService,
	})
}

type auditLogDTO struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Service   string         `json:"service"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"`
}

func auditLogToDTO(entry auditlog.Entry) auditLogDTO {
	return auditLogDTO{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		Level:     entry.Level,
		Service:   entry.Service,
		Message:   entry.Message,
		Meta:      entry.Meta,
	}
}

func auditEventFromRequest(payload auditLogRequest) (usecase.AuditEvent, error) {
	event := usecase.AuditEvent{
		Level:   payload.Level,
		Service: payload.Service,
		Message: payload.Message,
		Meta:    payload.Meta,
	}
	if raw := strings.TrimSpace(payload.Timestamp); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return usecase.AuditEvent{}, fmt.Errorf("%w: timestamp must be RFC3339", usecase.ErrInvalidInput)
		}
		event.Timestamp = &parsed
	}
	return event, nil
}

func attachClientIP(event *usecase.AuditEvent, clientIP string) {
	if clientIP == "" {
		return
	}
	if event.Meta == nil {
		event.Meta = map[string]any{}
	}
	if _, ok := event.Meta["client_ip"]; !ok {
		event.Meta["client_ip"] = clientIP
	}
}

func parseTimeParam(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time filters must be RFC3339", usecase.ErrInvalidInput)
	}
	return parsed, nil
}
