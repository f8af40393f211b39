package httpapi

import (
	"net/http"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	events, err := h.eventService.ListEvents(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventSummaryDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventToSummaryDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	item, err := h.eventService.GetEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}
