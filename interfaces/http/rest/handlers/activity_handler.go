package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"lifeline-backend/application/services"
)

// ActivityHandler handles the ingestion endpoint the browser extension posts
// to.
type ActivityHandler struct {
	tracker *services.TrackerService
	logger  *zap.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(tracker *services.TrackerService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// TrackActivity handles POST /track/activity
func (h *ActivityHandler) TrackActivity(w http.ResponseWriter, r *http.Request) {
	var req services.RecordActivityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.tracker.Record(r.Context(), req)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}
