package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"lifeline-backend/application/services"
)

// FileHandler serves the monitored-file endpoints.
type FileHandler struct {
	query  *services.QueryService
	logger *zap.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(query *services.QueryService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		query:  query,
		logger: logger,
	}
}

// filePayload is the wire representation of one monitored file. Modified is
// UTC epoch seconds.
type filePayload struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
	FullPath string `json:"full_path"`
}

// ListFiles handles GET /files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records := h.query.Files()

	payload := make([]filePayload, 0, len(records))
	for _, rec := range records {
		payload = append(payload, filePayload{
			Name:     rec.Name,
			Format:   rec.Format,
			Size:     rec.Size,
			Modified: rec.Modified.Unix(),
			FullPath: rec.FullPath,
		})
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"files": payload,
	})
}

// queryFileRequest is the ad-hoc file question payload.
type queryFileRequest struct {
	FilePath string `json:"file_path"`
	Query    string `json:"query"`
}

// QueryFile handles POST /query-file
func (h *FileHandler) QueryFile(w http.ResponseWriter, r *http.Request) {
	var req queryFileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FilePath) == "" || strings.TrimSpace(req.Query) == "" {
		respondError(w, h.logger, http.StatusBadRequest, "file_path and query are required")
		return
	}

	answer, err := h.query.QueryFile(r.Context(), req.FilePath, req.Query)
	if err != nil {
		h.logger.Warn("File query failed",
			zap.String("filePath", req.FilePath),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, answer)
}
