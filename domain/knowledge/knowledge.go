// Package knowledge holds the artifacts the content-intelligence backend
// produces from the accumulated corpus: insights, quiz material, the mind-map
// graph, file answers, and the indexed-file snapshot they draw on.
package knowledge

import "time"

// Insights maps stable ordinals ("1", "2", ...) to insight text.
type Insights map[string]string

// MCQ is one multiple-choice question. Options are ordered and unique and
// the answer is always one of them.
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Valid reports whether the MCQ satisfies the option invariants.
func (q MCQ) Valid() bool {
	if q.Question == "" || len(q.Options) < 2 {
		return false
	}
	seen := make(map[string]struct{}, len(q.Options))
	answerFound := false
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return false
		}
		seen[opt] = struct{}{}
		if opt == q.Answer {
			answerFound = true
		}
	}
	return answerFound
}

// Quiz bundles generated questions and summaries. Both slices may be empty;
// an insufficient corpus is a valid state, not an error.
type Quiz struct {
	MCQs      []MCQ    `json:"mcqs"`
	Summaries []string `json:"summaries"`
}

// Sanitize drops MCQs that violate the option invariants and returns the
// quiz with nil slices normalized so the payload always marshals as arrays.
func (z Quiz) Sanitize() Quiz {
	kept := make([]MCQ, 0, len(z.MCQs))
	for _, q := range z.MCQs {
		if q.Valid() {
			kept = append(kept, q)
		}
	}
	z.MCQs = kept
	if z.Summaries == nil {
		z.Summaries = []string{}
	}
	return z
}

// MindMapNode is one concept in the knowledge graph.
type MindMapNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// MindMapEdge links two nodes by id.
type MindMapEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// MindMapGraph is the position-independent structure of the knowledge map;
// layout is a presentation concern.
type MindMapGraph struct {
	Nodes []MindMapNode `json:"nodes"`
	Edges []MindMapEdge `json:"edges"`
}

// PruneDanglingEdges drops every edge whose endpoints are not both in the
// node set. The node set is never changed.
func (g MindMapGraph) PruneDanglingEdges() MindMapGraph {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	kept := make([]MindMapEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	if g.Nodes == nil {
		g.Nodes = []MindMapNode{}
	}
	return g
}

// SearchHit is one semantic match from a corpus search, best matches first.
type SearchHit struct {
	Source  string  `json:"source"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// FileAnswer is the response to an ad-hoc question about an indexed file.
// The preview is a bounded excerpt of the source content regardless of the
// answer length.
type FileAnswer struct {
	Answer         string `json:"answer"`
	ContentPreview string `json:"content_preview"`
}

// FileRecord is a read-only snapshot of one monitored file.
type FileRecord struct {
	Name     string
	Format   string
	Size     int64
	Modified time.Time
	FullPath string
}
