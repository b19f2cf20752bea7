package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"lifeline-backend/application/ports"
	"lifeline-backend/domain/knowledge"
	"lifeline-backend/domain/timeline"
)

// maxCorpusBytes bounds the text handed to the intelligence backend per call.
const maxCorpusBytes = 32 * 1024

// maxCorpusLabels bounds how many activity labels feed the corpus.
const maxCorpusLabels = 100

// QueryService is the read façade over the timeline store, the intelligence
// gateway, and the file index. Every method is a pure read; gateway-backed
// calls run under a bounded timeout so no read can block indefinitely, and a
// gateway failure never touches timeline data.
type QueryService struct {
	store          *timeline.Store
	gateway        ports.IntelligenceGateway
	files          ports.FileIndex
	gatewayTimeout time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewQueryService creates a query service.
func NewQueryService(
	store *timeline.Store,
	gateway ports.IntelligenceGateway,
	files ports.FileIndex,
	gatewayTimeout time.Duration,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		store:          store,
		gateway:        gateway,
		files:          files,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Timeline returns an immutable snapshot of today's timeline with its
// derived focus score and prediction.
func (s *QueryService) Timeline() timeline.Timeline {
	return s.store.Snapshot(s.store.Today(s.now()))
}

// Insights returns ordinal-keyed learning insights for the current corpus.
// An empty map is a valid state.
func (s *QueryService) Insights(ctx context.Context) (knowledge.Insights, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.Insights(ctx, s.buildCorpus())
}

// Quiz returns generated quiz material for the current corpus.
func (s *QueryService) Quiz(ctx context.Context, numQuestions int) (knowledge.Quiz, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.Quiz(ctx, s.buildCorpus(), numQuestions)
}

// MindMap returns the knowledge graph for the current corpus.
func (s *QueryService) MindMap(ctx context.Context) (knowledge.MindMapGraph, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.MindMap(ctx, s.buildCorpus())
}

// Search finds corpus passages matching a free-text query.
func (s *QueryService) Search(ctx context.Context, query string, limit int) ([]knowledge.SearchHit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.Search(ctx, s.buildCorpus(), query, limit)
}

// Files lists the monitored-directory snapshot.
func (s *QueryService) Files() []knowledge.FileRecord {
	return s.files.Files()
}

// QueryFile answers an ad-hoc question about one indexed file.
func (s *QueryService) QueryFile(ctx context.Context, path, question string) (knowledge.FileAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return s.gateway.QueryFile(ctx, path, question)
}

// buildCorpus assembles the text the gateway reasons over: today's distinct
// activity labels followed by extracted file content, truncated to the
// corpus budget. The assembly is deterministic for a fixed store and index
// state, which keeps gateway caching sound.
func (s *QueryService) buildCorpus() string {
	var sb strings.Builder

	labels := s.store.RecentLabels(s.store.Today(s.now()), maxCorpusLabels)
	if len(labels) > 0 {
		sb.WriteString("activity: ")
		sb.WriteString(strings.Join(labels, ", "))
		sb.WriteString("\n")
	}

	for _, rec := range s.files.Files() {
		if sb.Len() >= maxCorpusBytes {
			break
		}
		content, ok := s.files.Content(rec.FullPath)
		if !ok || content == "" {
			continue
		}
		sb.WriteString(rec.Name)
		sb.WriteString(":\n")
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	corpus := sb.String()
	if len(corpus) > maxCorpusBytes {
		corpus = corpus[:maxCorpusBytes]
	}
	return corpus
}
