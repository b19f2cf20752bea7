package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"lifeline-backend/application/services"
)

// defaultQuizQuestions applies when the client omits num_mcqs.
const defaultQuizQuestions = 3

// defaultSearchLimit applies when the client omits limit.
const defaultSearchLimit = 5

// InsightHandler serves the gateway-backed read endpoints: insights, quiz,
// and mind-map. Every response is well formed even when the backend degrades
// to empty payloads.
type InsightHandler struct {
	query  *services.QueryService
	logger *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(query *services.QueryService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		query:  query,
		logger: logger,
	}
}

// GetInsights handles GET /insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.query.Insights(r.Context())
	if err != nil {
		h.logger.Error("Failed to get insights", zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"insights": insights,
	})
}

// GetQuiz handles GET /quiz
func (h *InsightHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	numQuestions := defaultQuizQuestions
	if raw := r.URL.Query().Get("num_mcqs"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, h.logger, http.StatusBadRequest, "num_mcqs must be a positive integer")
			return
		}
		numQuestions = n
	}

	quiz, err := h.query.Quiz(r.Context(), numQuestions)
	if err != nil {
		h.logger.Error("Failed to get quiz", zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, quiz)
}

// GetSearch handles GET /search
func (h *InsightHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, h.logger, http.StatusBadRequest, "q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, h.logger, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := h.query.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("Failed to search corpus", zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"results": hits,
	})
}

// GetMindMap handles GET /mindmap
func (h *InsightHandler) GetMindMap(w http.ResponseWriter, r *http.Request) {
	graph, err := h.query.MindMap(r.Context())
	if err != nil {
		h.logger.Error("Failed to get mind map", zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, graph)
}
