package services

import (
	"context"
	"sync"

	"lifeline-backend/domain/activity"
	"lifeline-backend/domain/knowledge"
	"lifeline-backend/domain/timeline"
)

// fakeActivityLog records calls in memory.
type fakeActivityLog struct {
	mu       sync.Mutex
	appended []activity.Event
	archived []timeline.Timeline
	failNext error
}

func (f *fakeActivityLog) Append(_ context.Context, ev activity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.appended = append(f.appended, ev)
	return nil
}

func (f *fakeActivityLog) ArchiveDay(_ context.Context, t timeline.Timeline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, t)
	return nil
}

func (f *fakeActivityLog) Close() error { return nil }

// fakeFileIndex serves a fixed record set.
type fakeFileIndex struct {
	records []knowledge.FileRecord
	content map[string]string
}

func (f *fakeFileIndex) Files() []knowledge.FileRecord { return f.records }

func (f *fakeFileIndex) Lookup(path string) (knowledge.FileRecord, bool) {
	for _, rec := range f.records {
		if rec.FullPath == path {
			return rec, true
		}
	}
	return knowledge.FileRecord{}, false
}

func (f *fakeFileIndex) Content(path string) (string, bool) {
	c, ok := f.content[path]
	return c, ok
}

// fakeGateway captures the corpus it is called with.
type fakeGateway struct {
	mu          sync.Mutex
	lastCorpus  string
	sawDeadline bool

	insights knowledge.Insights
	quiz     knowledge.Quiz
	graph    knowledge.MindMapGraph
	hits     []knowledge.SearchHit
	answer   knowledge.FileAnswer
	err      error
}

func (f *fakeGateway) observe(ctx context.Context, corpus string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCorpus = corpus
	_, f.sawDeadline = ctx.Deadline()
}

func (f *fakeGateway) Insights(ctx context.Context, corpus string) (knowledge.Insights, error) {
	f.observe(ctx, corpus)
	return f.insights, f.err
}

func (f *fakeGateway) Quiz(ctx context.Context, corpus string, _ int) (knowledge.Quiz, error) {
	f.observe(ctx, corpus)
	return f.quiz, f.err
}

func (f *fakeGateway) MindMap(ctx context.Context, corpus string) (knowledge.MindMapGraph, error) {
	f.observe(ctx, corpus)
	return f.graph, f.err
}

func (f *fakeGateway) Search(ctx context.Context, corpus, _ string, _ int) ([]knowledge.SearchHit, error) {
	f.observe(ctx, corpus)
	return f.hits, f.err
}

func (f *fakeGateway) QueryFile(ctx context.Context, path, _ string) (knowledge.FileAnswer, error) {
	f.observe(ctx, path)
	return f.answer, f.err
}
