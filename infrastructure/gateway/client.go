// Package gateway implements the content-intelligence boundary: an HTTP
// client for the external text/embedding backend plus the response
// normalization the rest of the core relies on. Backend failures degrade to
// empty payloads or typed errors; they never reach the timeline store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"lifeline-backend/application/ports"
	"lifeline-backend/domain/knowledge"
	"lifeline-backend/infrastructure/observability"
	apperrors "lifeline-backend/pkg/errors"
)

// maxPreviewBytes bounds the content excerpt returned with file answers.
const maxPreviewBytes = 500

// maxResponseBytes bounds how much of a backend response body is read.
const maxResponseBytes = 1 << 20

// Client calls the intelligence backend over HTTP. Calls run through a
// circuit breaker so a failing backend sheds load quickly, and responses are
// cached per corpus snapshot.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      *responseCache
	cacheTTL   time.Duration
	files      ports.FileIndex
	metrics    *observability.Collector
	logger     *zap.Logger
}

var _ ports.IntelligenceGateway = (*Client)(nil)

// NewClient creates a gateway client for the given backend base URL.
func NewClient(
	baseURL string,
	timeout time.Duration,
	cacheTTL time.Duration,
	files ports.FileIndex,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "intelligence-gateway",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Gateway circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		cache:      newResponseCache(),
		cacheTTL:   cacheTTL,
		files:      files,
		metrics:    metrics,
		logger:     logger,
	}
}

// insightsResponse carries the raw insights field, which the backend returns
// either as a structured mapping or as a string that itself JSON-encodes one.
type insightsResponse struct {
	Insights json.RawMessage `json:"insights"`
}

// Insights returns ordinal-keyed insight text for the corpus. Unparseable
// backend output degrades to an empty map; the condition is logged and
// counted, never surfaced as an error.
func (c *Client) Insights(ctx context.Context, corpus string) (knowledge.Insights, error) {
	if strings.TrimSpace(corpus) == "" {
		return knowledge.Insights{}, nil
	}

	key := cacheKey("insights", corpus)
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheHits.Inc()
		return cached.(knowledge.Insights), nil
	}
	c.metrics.CacheMisses.Inc()

	var resp insightsResponse
	if err := c.call(ctx, "insights", "/insights", map[string]interface{}{"corpus": corpus}, &resp); err != nil {
		return nil, err
	}

	insights := c.normalizeInsights(resp.Insights)
	c.cache.set(key, insights, c.cacheTTL)
	return insights, nil
}

// normalizeInsights resolves the dual-shaped insights payload in one step:
// structured parse first, then string-decode-then-parse, else empty.
func (c *Client) normalizeInsights(raw json.RawMessage) knowledge.Insights {
	if len(raw) == 0 {
		return knowledge.Insights{}
	}

	var structured map[string]string
	if err := json.Unmarshal(raw, &structured); err == nil {
		return structured
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &structured); err == nil {
			return structured
		}
	}

	c.metrics.MalformedInsights.Inc()
	c.logger.Warn("Dropped malformed insight response",
		zap.Error(apperrors.NewMalformedInsightError("insights field is neither a mapping nor an encoded mapping")),
	)
	return knowledge.Insights{}
}

// Quiz returns generated quiz material. MCQs violating the option invariants
// are dropped; an insufficient corpus yields empty slices, never an error.
func (c *Client) Quiz(ctx context.Context, corpus string, numQuestions int) (knowledge.Quiz, error) {
	empty := knowledge.Quiz{MCQs: []knowledge.MCQ{}, Summaries: []string{}}
	if strings.TrimSpace(corpus) == "" {
		return empty, nil
	}

	key := cacheKey(fmt.Sprintf("quiz:%d", numQuestions), corpus)
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheHits.Inc()
		return cached.(knowledge.Quiz), nil
	}
	c.metrics.CacheMisses.Inc()

	var quiz knowledge.Quiz
	payload := map[string]interface{}{"corpus": corpus, "num_questions": numQuestions}
	if err := c.call(ctx, "quiz", "/quiz", payload, &quiz); err != nil {
		return knowledge.Quiz{}, err
	}

	quiz = quiz.Sanitize()
	c.cache.set(key, quiz, c.cacheTTL)
	return quiz, nil
}

// MindMap returns the knowledge graph with dangling edges dropped.
func (c *Client) MindMap(ctx context.Context, corpus string) (knowledge.MindMapGraph, error) {
	if strings.TrimSpace(corpus) == "" {
		return knowledge.MindMapGraph{Nodes: []knowledge.MindMapNode{}, Edges: []knowledge.MindMapEdge{}}, nil
	}

	key := cacheKey("mindmap", corpus)
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheHits.Inc()
		return cached.(knowledge.MindMapGraph), nil
	}
	c.metrics.CacheMisses.Inc()

	var graph knowledge.MindMapGraph
	if err := c.call(ctx, "mindmap", "/mindmap", map[string]interface{}{"corpus": corpus}, &graph); err != nil {
		return knowledge.MindMapGraph{}, err
	}

	graph = graph.PruneDanglingEdges()
	c.cache.set(key, graph, c.cacheTTL)
	return graph, nil
}

// Search asks the backend for the corpus passages closest to the query.
func (c *Client) Search(ctx context.Context, corpus, query string, limit int) ([]knowledge.SearchHit, error) {
	if strings.TrimSpace(corpus) == "" || strings.TrimSpace(query) == "" {
		return []knowledge.SearchHit{}, nil
	}

	key := cacheKey(fmt.Sprintf("search:%d:%s", limit, query), corpus)
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheHits.Inc()
		return cached.([]knowledge.SearchHit), nil
	}
	c.metrics.CacheMisses.Inc()

	var resp struct {
		Results []knowledge.SearchHit `json:"results"`
	}
	payload := map[string]interface{}{"corpus": corpus, "query": query, "limit": limit}
	if err := c.call(ctx, "search", "/search", payload, &resp); err != nil {
		return nil, err
	}

	hits := resp.Results
	if hits == nil {
		hits = []knowledge.SearchHit{}
	}
	c.cache.set(key, hits, c.cacheTTL)
	return hits, nil
}

// QueryFile answers a question about one monitored file. The file must be in
// the index; the preview is a bounded excerpt of the extracted content
// regardless of the answer.
func (c *Client) QueryFile(ctx context.Context, path, question string) (knowledge.FileAnswer, error) {
	rec, ok := c.files.Lookup(path)
	if !ok {
		return knowledge.FileAnswer{}, apperrors.NewFileNotIndexedError(path)
	}

	content, _ := c.files.Content(path)
	preview := content
	if len(preview) > maxPreviewBytes {
		preview = preview[:maxPreviewBytes]
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	payload := map[string]interface{}{
		"file_name": rec.Name,
		"content":   content,
		"question":  question,
	}
	if err := c.call(ctx, "query_file", "/query", payload, &resp); err != nil {
		return knowledge.FileAnswer{}, err
	}

	return knowledge.FileAnswer{
		Answer:         resp.Answer,
		ContentPreview: preview,
	}, nil
}

// call posts a JSON payload to the backend and decodes the response through
// the circuit breaker, translating transport failures into the error
// taxonomy.
func (c *Client) call(ctx context.Context, operation, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError("failed to encode gateway request").WithCause(err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if readErr != nil {
			return nil, readErr
		}
		return nil, json.Unmarshal(data, out)
	})

	if err != nil {
		c.metrics.GatewayRequests.WithLabelValues(operation, "error").Inc()
		return c.translateError(operation, err)
	}

	c.metrics.GatewayRequests.WithLabelValues(operation, "ok").Inc()
	return nil
}

func (c *Client) translateError(operation string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewGatewayTimeoutError(operation).WithCause(err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.NewUnavailableError("intelligence gateway is shedding load").WithCause(err)
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return apperrors.NewGatewayTimeoutError(operation).WithCause(err)
		}
		return apperrors.NewUnavailableError("intelligence gateway call failed").WithCause(err)
	}
}
