// Package ports defines the contracts between the application layer and its
// infrastructure adapters.
package ports

import (
	"context"

	"lifeline-backend/domain/activity"
	"lifeline-backend/domain/knowledge"
	"lifeline-backend/domain/timeline"
)

// IntelligenceGateway is the boundary to the external text/embedding backend.
// Implementations own response normalization: callers always receive
// well-formed (possibly empty) values, and a backend failure never reaches
// the timeline store.
type IntelligenceGateway interface {
	// Insights returns ordinal-keyed insight text. An unparseable backend
	// response degrades to an empty map, never an error.
	Insights(ctx context.Context, corpus string) (knowledge.Insights, error)

	// Quiz returns up to numQuestions MCQs plus summaries. Insufficient
	// corpus yields empty slices.
	Quiz(ctx context.Context, corpus string, numQuestions int) (knowledge.Quiz, error)

	// MindMap returns the knowledge graph with dangling edges dropped.
	MindMap(ctx context.Context, corpus string) (knowledge.MindMapGraph, error)

	// Search returns corpus passages semantically matching the query, best
	// first. A blank query or empty corpus yields an empty result set.
	Search(ctx context.Context, corpus, query string, limit int) ([]knowledge.SearchHit, error)

	// QueryFile answers a question about one indexed file. Returns a
	// FileNotIndexedError when the path is outside the monitored set.
	QueryFile(ctx context.Context, path, question string) (knowledge.FileAnswer, error)
}

// FileIndex is the monitored-directory snapshot supplied by the file-indexing
// collaborator.
type FileIndex interface {
	// Files lists every indexed file, sorted by path.
	Files() []knowledge.FileRecord

	// Lookup reports whether a path is part of the monitored set.
	Lookup(path string) (knowledge.FileRecord, bool)

	// Content returns the extracted text of an indexed file, bounded to the
	// index's excerpt budget. Non-text formats yield an empty string.
	Content(path string) (string, bool)
}

// ActivityLog persists accepted events and finished-day timelines.
type ActivityLog interface {
	Append(ctx context.Context, ev activity.Event) error
	ArchiveDay(ctx context.Context, day timeline.Timeline) error
	Close() error
}
