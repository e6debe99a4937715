package httpapi

import "net/http"

func (h *Handler) GetEventSets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventSets")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sets, err := h.eventService.GetEventSets(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event sets failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sets)
}

func (h *Handler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSetByID")
	defer span.End()

	if _, err := pathID(r, "eventID"); err != nil {
		writeError(ctx, w, err)
		return
	}
	setID, err := pathID(r, "setID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	details, err := h.eventService.GetSetByID(ctx, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "get set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, details)
}

func (h *Handler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveEvent")
	defer span.End()

	eventID, err := h.eventService.ResolveEventID(ctx, r.URL.Query().Get("url"))
	if err != nil {
		h.logger.WarnContext(ctx, "resolve event failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"eventId": eventID})
}
