package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	details, err := h.tournamentService.GetTournamentDetails(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, details)
}

func (h *Handler) GetEventTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventTournament")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	details, err := h.tournamentService.GetEventDetails(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event tournament failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, details)
}

// ListTournaments pages tournaments by country. Without an explicit
// countryCode the edge country headers decide, defaulting to Colombia.
func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	countryCode := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("countryCode")))
	if countryCode == "" {
		countryCode = resolveCountryCode(ctx, r)
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 0)

	items, err := h.tournamentService.ListTournamentsByCountry(ctx, countryCode, page, perPage)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "country_code", countryCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
