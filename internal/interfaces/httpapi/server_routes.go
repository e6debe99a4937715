package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/events/resolve", handler.ResolveEvent)
	mux.HandleFunc("GET /v1/events/{eventID}/tournament", handler.GetEventTournament)
	mux.HandleFunc("GET /v1/events/{eventID}/sets", handler.GetEventSets)
	mux.HandleFunc("GET /v1/events/{eventID}/sets/{setID}", handler.GetSetByID)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
}

func registerAuditRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/audit/logs", handler.CreateAuditLog)
	mux.HandleFunc("POST /v1/audit/logs/bulk", handler.CreateAuditLogsBulk)
	mux.HandleFunc("GET /v1/audit/logs", handler.SearchAuditLogs)
	mux.HandleFunc("GET /v1/audit/stats", handler.GetAuditStats)
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/reports", handler.SubmitReport)
	mux.HandleFunc("GET /v1/reports/{reportID}", handler.GetReportStatus)
	mux.HandleFunc("GET /v1/reports/{reportID}/download", handler.DownloadReport)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/tournaments/{tournamentID}/players/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncTournamentPlayers)))
}
