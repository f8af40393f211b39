package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/team-roster/internal/usecase"
)

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCandidates")
	defer span.End()

	eventID := r.PathValue("eventID")
	candidates, err := h.selectionService.Candidates(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "list candidates failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, candidateToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PreviewSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewSelection")
	defer span.End()

	eventID := r.PathValue("eventID")
	result, err := h.selectionService.Preview(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "preview selection failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionResultToDTO(result))
}

func (h *Handler) AutoSelect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoSelect")
	defer span.End()

	eventID := r.PathValue("eventID")
	result, err := h.selectionService.AutoSelect(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "auto selection failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionResultToDTO(result))
}

func (h *Handler) SaveSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveSelection")
	defer span.End()

	eventID := r.PathValue("eventID")

	var req saveSelectionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rosters := make(map[string][]string, len(req.Teams))
	for _, t := range req.Teams {
		teamID := strings.TrimSpace(t.TeamID)
		if _, dup := rosters[teamID]; dup {
			writeError(ctx, w, fmt.Errorf("%w: team %s listed more than once", usecase.ErrInvalidInput, teamID))
			return
		}
		rosters[teamID] = t.PlayerIDs
	}

	item, err := h.selectionService.SaveSelection(ctx, usecase.SaveSelectionInput{
		EventID: eventID,
		Rosters: rosters,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save selection failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) AutoSelectBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoSelectBatch")
	defer span.End()

	var req batchSelectionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.selectionService.AutoSelectBatch(ctx, usecase.BatchSelectionInput{
		EventIDs:   req.EventIDs,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "batch auto selection failed", "event_count", len(req.EventIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchSelectionToDTO(result))
}
