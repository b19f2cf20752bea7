package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lifeline-backend/domain/knowledge"
	"lifeline-backend/infrastructure/observability"
	apperrors "lifeline-backend/pkg/errors"
)

type stubIndex struct {
	records map[string]knowledge.FileRecord
	content map[string]string
}

func (s *stubIndex) Files() []knowledge.FileRecord {
	out := make([]knowledge.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

func (s *stubIndex) Lookup(path string) (knowledge.FileRecord, bool) {
	rec, ok := s.records[path]
	return rec, ok
}

func (s *stubIndex) Content(path string) (string, bool) {
	c, ok := s.content[path]
	return c, ok
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	index := &stubIndex{
		records: map[string]knowledge.FileRecord{
			"/watched/notes.txt": {Name: "notes.txt", Format: ".txt", FullPath: "/watched/notes.txt"},
		},
		content: map[string]string{
			"/watched/notes.txt": strings.Repeat("x", 2000),
		},
	}
	return NewClient(
		server.URL,
		time.Second,
		time.Minute,
		index,
		observability.NewCollector("test_gateway_"+t.Name()),
		zaptest.NewLogger(t),
	)
}

func insightsBackend(raw string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"insights":` + raw + `}`))
	})
}

func TestInsightsStructuredResponse(t *testing.T) {
	client := newTestClient(t, insightsBackend(`{"1":"You focus best in mornings"}`))

	insights, err := client.Insights(context.Background(), "corpus text")
	require.NoError(t, err)
	assert.Equal(t, knowledge.Insights{"1": "You focus best in mornings"}, insights)
}

func TestInsightsStringEncodedResponse(t *testing.T) {
	client := newTestClient(t, insightsBackend(`"{\"1\":\"You focus best in mornings\"}"`))

	insights, err := client.Insights(context.Background(), "corpus text")
	require.NoError(t, err)
	assert.Equal(t, "You focus best in mornings", insights["1"])
}

func TestInsightsUnparseableResponse(t *testing.T) {
	client := newTestClient(t, insightsBackend(`"this is not a mapping"`))

	insights, err := client.Insights(context.Background(), "corpus text")
	require.NoError(t, err, "malformed responses degrade, they do not fail")
	assert.Empty(t, insights)
}

func TestInsightsEmptyCorpusSkipsBackend(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	insights, err := client.Insights(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, insights)
	assert.Zero(t, calls.Load())
}

func TestInsightsCachedPerCorpus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"insights":{"1":"cached"}}`))
	}))

	for i := 0; i < 3; i++ {
		insights, err := client.Insights(context.Background(), "same corpus")
		require.NoError(t, err)
		assert.Equal(t, "cached", insights["1"])
	}
	assert.Equal(t, int32(1), calls.Load(), "same corpus snapshot must hit the cache")
}

func TestQuizDropsInvalidQuestions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(knowledge.Quiz{
			MCQs: []knowledge.MCQ{
				{Question: "ok", Options: []string{"a", "b"}, Answer: "b"},
				{Question: "broken", Options: []string{"a"}, Answer: "z"},
			},
			Summaries: []string{"a summary"},
		})
	}))

	quiz, err := client.Quiz(context.Background(), "corpus", 3)
	require.NoError(t, err)
	require.Len(t, quiz.MCQs, 1)
	assert.Equal(t, "ok", quiz.MCQs[0].Question)
	assert.Equal(t, []string{"a summary"}, quiz.Summaries)
}

func TestQuizEmptyCorpusFailsSoft(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}))

	quiz, err := client.Quiz(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Empty(t, quiz.MCQs)
	assert.Empty(t, quiz.Summaries)
	assert.NotNil(t, quiz.MCQs)
}

func TestMindMapDropsDanglingEdges(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(knowledge.MindMapGraph{
			Nodes: []knowledge.MindMapNode{{ID: "1", Label: "go"}},
			Edges: []knowledge.MindMapEdge{{Source: "1", Target: "missing"}},
		})
	}))

	graph, err := client.MindMap(context.Background(), "corpus")
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
}

func TestSearchReturnsRankedHits(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"source":"notes.txt","snippet":"goroutines","score":0.92}]}`))
	}))

	hits, err := client.Search(context.Background(), "corpus", "goroutines", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "notes.txt", hits[0].Source)
	assert.InDelta(t, 0.92, hits[0].Score, 1e-9)
}

func TestSearchBlankQuerySkipsBackend(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	hits, err := client.Search(context.Background(), "corpus", "   ", 5)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
	assert.Zero(t, calls.Load())
}

func TestQueryFileUnknownPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for unindexed paths")
	}))

	_, err := client.QueryFile(context.Background(), "/elsewhere/secret.txt", "what?")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFileNotIndexed))
}

func TestQueryFileBoundedPreview(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"it is notes"}`))
	}))

	answer, err := client.QueryFile(context.Background(), "/watched/notes.txt", "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "it is notes", answer.Answer)
	assert.Len(t, answer.ContentPreview, maxPreviewBytes, "preview is bounded regardless of content size")
}

func TestCallTimeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Insights(ctx, "corpus")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGatewayTimeout), "got: %v", err)
}

func TestCallBackendErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.MindMap(context.Background(), "corpus")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}
