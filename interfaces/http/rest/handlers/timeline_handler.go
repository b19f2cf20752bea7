package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"lifeline-backend/application/services"
)

// TimelineHandler serves the aggregated timeline with its derived metrics.
type TimelineHandler struct {
	query  *services.QueryService
	logger *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(query *services.QueryService, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{
		query:  query,
		logger: logger,
	}
}

// GetTimeline handles GET /timeline
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	snapshot := h.query.Timeline()
	respondJSON(w, h.logger, http.StatusOK, snapshot)
}
