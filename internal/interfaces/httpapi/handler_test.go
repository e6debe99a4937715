package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/memory"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/reportrender"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/paging"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

// stubProvider serves a single canned tournament so handlers can be driven
// end to end through the router without the real GraphQL client.
type stubProvider struct{}

func (stubProvider) Tournament(_ context.Context, tournamentID int64) (usecase.UpstreamTournament, error) {
	if tournamentID != 42 {
		return usecase.UpstreamTournament{}, fmt.Errorf("%w: tournament %d", usecase.ErrNotFound, tournamentID)
	}
	return usecase.UpstreamTournament{
		ID:          42,
		Name:        "Combo Breaker Manizales",
		Slug:        "tournament/combo-breaker-manizales",
		City:        "Manizales",
		CountryCode: "CO",
		StartAt:     1700000000,
		Winner:      "Zento",
		EventIDs:    []int64{7},
	}, nil
}

func (stubProvider) TournamentParticipants(_ context.Context, _ int64, page, _ int) (paging.Page[usecase.UpstreamParticipant], error) {
	if page > 1 {
		return paging.Page[usecase.UpstreamParticipant]{TotalPages: 1}, nil
	}
	linked := int64(901)
	return paging.Page[usecase.UpstreamParticipant]{
		Items: []usecase.UpstreamParticipant{
			{ParticipantID: 1, GamerTag: "Zento", PlayerID: &linked, EntrantIDs: []int64{11}},
			{ParticipantID: 2, GamerTag: "Chino", EntrantIDs: []int64{22}},
		},
		TotalPages: 1,
	}, nil
}

func (stubProvider) TournamentIDForEvent(_ context.Context, eventID int64) (int64, error) {
	if eventID != 7 {
		return 0, fmt.Errorf("%w: event %d", usecase.ErrNotFound, eventID)
	}
	return 42, nil
}

func (stubProvider) EventIDForSlug(_ context.Context, slug string) (int64, error) {
	if !strings.Contains(slug, "combo-breaker-manizales") {
		return 0, fmt.Errorf("%w: slug %s", usecase.ErrNotFound, slug)
	}
	return 7, nil
}

func (stubProvider) EventSets(_ context.Context, _ int64, page, _ int) (paging.Page[usecase.UpstreamSet], error) {
	if page > 1 {
		return paging.Page[usecase.UpstreamSet]{TotalPages: 1}, nil
	}
	return paging.Page[usecase.UpstreamSet]{
		Items: []usecase.UpstreamSet{
			{
				ID:             501,
				DisplayScore:   "Zento 3 - Chino 1",
				PhaseName:      "Grand Final",
				EventName:      "Ultimate Singles",
				TournamentName: "Combo Breaker Manizales",
				SlotEntrantIDs: []int64{11, 22},
			},
		},
		TotalPages: 1,
	}, nil
}

func (stubProvider) SetByID(_ context.Context, setID int64) (usecase.UpstreamSet, error) {
	if setID != 501 {
		return usecase.UpstreamSet{}, fmt.Errorf("%w: set %d", usecase.ErrNotFound, setID)
	}
	return usecase.UpstreamSet{
		ID:             501,
		DisplayScore:   "Zento 3 - Chino 1",
		PhaseName:      "Grand Final",
		EventName:      "Ultimate Singles",
		SlotEntrantIDs: []int64{11, 22},
	}, nil
}

func (stubProvider) Player(_ context.Context, playerID int64) (usecase.UpstreamPlayer, error) {
	if playerID != 901 {
		return usecase.UpstreamPlayer{}, fmt.Errorf("%w: player %d", usecase.ErrNotFound, playerID)
	}
	return usecase.UpstreamPlayer{
		ID:       901,
		GamerTag: "Zento",
		UserSlug: "user/zento",
		City:     "Manizales",
		Country:  "Colombia",
	}, nil
}

func (stubProvider) TournamentsByCountry(_ context.Context, _ string, page, _ int) (paging.Page[usecase.UpstreamTournamentSummary], error) {
	if page > 1 {
		return paging.Page[usecase.UpstreamTournamentSummary]{TotalPages: 1}, nil
	}
	return paging.Page[usecase.UpstreamTournamentSummary]{
		Items: []usecase.UpstreamTournamentSummary{
			{ID: 42, Name: "Combo Breaker Manizales", Slug: "tournament/combo-breaker-manizales", City: "Manizales", CountryCode: "CO", StartAt: 1700000000},
		},
		TotalPages: 1,
	}, nil
}

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	provider := stubProvider{}
	cfg := usecase.TournamentServiceConfig{ParticipantsPerPage: 100, SetsPerPage: 20}

	tournamentService := usecase.NewTournamentService(provider, memory.NewTournamentRepository(), nil, logger, cfg)
	eventService := usecase.NewEventService(provider, memory.NewSetRepository(), logger, cfg)
	playerService := usecase.NewPlayerService(provider, memory.NewPlayerRepository(), nil, logger, 2, cfg)
	auditService := usecase.NewAuditService(memory.NewAuditLogRepository(), nil, logger)
	reportService, err := usecase.NewReportService(memory.NewReportRepository(), reportrender.NewJSONRenderer(t.TempDir()), nil, logger, 0)
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	t.Cleanup(reportService.Close)

	handler := NewHandler(tournamentService, eventService, playerService, auditService, reportService, logger)
	return NewRouter(handler, logger, false, []string{"*"}, testJobToken)
}

func doJSON(t *testing.T, router http.Handler, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response for %s %s: %v", method, target, err)
		}
	}
	return rec, envelope
}

func dataObject(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", envelope)
	}
	return data
}

func TestRouter_GetTournament(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/tournaments/42", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := dataObject(t, envelope)
	if got := data["name"]; got != "Combo Breaker Manizales" {
		t.Fatalf("unexpected tournament name: %v", got)
	}
	if got := data["department"]; got != "Caldas" {
		t.Fatalf("unexpected department: %v", got)
	}
	if got := data["startDate"]; got != "2023-11-14" {
		t.Fatalf("unexpected start date: %v", got)
	}
}

func TestRouter_GetTournament_BadID(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/tournaments/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_GetTournament_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/tournaments/9999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_ResolveEvent(t *testing.T) {
	router := newTestRouter(t)

	target := "/v1/events/resolve?url=" +
		"https%3A%2F%2Fwww.start.gg%2Ftournament%2Fcombo-breaker-manizales%2Fevent%2Fultimate-singles%2Fbrackets"
	rec, envelope := doJSON(t, router, http.MethodGet, target, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := dataObject(t, envelope)
	if got, _ := data["eventId"].(float64); int64(got) != 7 {
		t.Fatalf("unexpected event id: %v", data["eventId"])
	}
}

func TestRouter_GetEventSets(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/events/7/sets", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	sets, ok := envelope["data"].([]any)
	if !ok || len(sets) != 1 {
		t.Fatalf("expected one set, got %v", envelope["data"])
	}
}

func TestRouter_AuditLogLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/audit/logs",
		`{"level":"warning","service":"tournaments","message":"slow upstream"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := dataObject(t, envelope)
	if id, _ := data["id"].(string); id == "" {
		t.Fatalf("expected generated audit id, got %v", data["id"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/audit/logs?service=tournaments", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	entries, ok := envelope["data"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %v", envelope["data"])
	}
	entry := entries[0].(map[string]any)
	if got := entry["level"]; got != "WARNING" {
		t.Fatalf("expected normalized level WARNING, got %v", got)
	}
	meta, ok := entry["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta with client ip, got %v", entry["meta"])
	}
	if ip, _ := meta["client_ip"].(string); ip == "" {
		t.Fatalf("expected client_ip in meta, got %v", meta)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/audit/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	stats := dataObject(t, envelope)
	if total, _ := stats["total"].(float64); int64(total) != 1 {
		t.Fatalf("expected total 1, got %v", stats["total"])
	}
}

func TestRouter_AuditLog_MissingLevel(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/audit/logs",
		`{"service":"tournaments","message":"no level"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_AuditLogsBulk(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/audit/logs/bulk",
		`{"logs":[{"level":"info","service":"reports","message":"a"},{"level":"error","service":"reports","message":"b"}]}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := dataObject(t, envelope)
	if count, _ := data["count"].(float64); int(count) != 2 {
		t.Fatalf("expected 2 stored entries, got %v", data["count"])
	}
}

func TestRouter_ReportLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/reports",
		`{"type":"tournament","payload":{"tournamentId":42}}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rec.Code, rec.Body.String())
	}
	data := dataObject(t, envelope)
	jobID, _ := data["id"].(string)
	if jobID == "" {
		t.Fatalf("expected job id, got %v", data["id"])
	}
	// No async workers in tests, so submission runs the render inline.
	if got := data["status"]; got != "ready" {
		t.Fatalf("expected status ready, got %v", got)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/reports/"+jobID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := dataObject(t, envelope)["status"]; got != "ready" {
		t.Fatalf("expected status ready, got %v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+jobID+"/download", nil)
	downloadRec := httptest.NewRecorder()
	router.ServeHTTP(downloadRec, req)
	if downloadRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on download, got %d", downloadRec.Code)
	}
	if !strings.Contains(downloadRec.Body.String(), "tournamentId") {
		t.Fatalf("expected artifact to carry the payload, got %q", downloadRec.Body.String())
	}
}

func TestRouter_Report_UnknownID(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/reports/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_InternalSyncRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/internal/tournaments/42/players/sync", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/internal/tournaments/42/players/sync", "",
		map[string]string{"X-Internal-Job-Token": testJobToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := dataObject(t, envelope)
	if created, _ := data["created"].(float64); int(created) != 1 {
		t.Fatalf("expected one created player, got %v", data["created"])
	}
	if skipped, _ := data["skipped"].(float64); int(skipped) != 1 {
		t.Fatalf("expected one skipped registration, got %v", data["skipped"])
	}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := dataObject(t, envelope)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %v", got)
	}
}
