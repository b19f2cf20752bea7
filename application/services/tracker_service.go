// Package services holds the application layer: the ingestion path folding
// events into the timeline and the read façade composing store, analyzer,
// gateway and file index.
package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"lifeline-backend/application/ports"
	"lifeline-backend/domain/activity"
	"lifeline-backend/domain/timeline"
	"lifeline-backend/infrastructure/observability"
	apperrors "lifeline-backend/pkg/errors"
)

// RecordActivityRequest is the untrusted payload the browser extension posts
// on tab-completion events. Timestamp is UTC epoch seconds; zero means
// arrival time.
type RecordActivityRequest struct {
	URL         string `json:"url" validate:"omitempty,max=2048"`
	WindowTitle string `json:"window_title" validate:"omitempty,max=512"`
	AppName     string `json:"app_name" validate:"omitempty,max=256"`
	FilePath    string `json:"file_path" validate:"omitempty,max=1024"`
	Type        string `json:"type" validate:"omitempty,max=32"`
	Timestamp   int64  `json:"timestamp" validate:"omitempty,gte=0"`
}

// RecordActivityResponse acknowledges a logged event.
type RecordActivityResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Day    string `json:"day"`
	Hour   int    `json:"hour"`
}

// TrackerService is the event ingestor: it validates and normalizes raw
// observations, forwards them to the timeline store, persists them to the
// activity log, and rolls finished days into historical storage. Record is
// safe to call concurrently and tolerates out-of-order arrival.
type TrackerService struct {
	store    *timeline.Store
	log      ports.ActivityLog
	validate *validator.Validate
	metrics  *observability.Collector
	logger   *zap.Logger
	now      func() time.Time
}

// NewTrackerService creates a tracker service.
func NewTrackerService(
	store *timeline.Store,
	log ports.ActivityLog,
	metrics *observability.Collector,
	logger *zap.Logger,
) *TrackerService {
	return &TrackerService{
		store:    store,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Record validates one raw event and folds it into the timeline. Malformed
// input yields an InvalidEventError and is dropped; it never corrupts the
// store.
func (s *TrackerService) Record(ctx context.Context, req RecordActivityRequest) (RecordActivityResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		s.metrics.EventsRejected.Inc()
		return RecordActivityResponse{}, apperrors.NewInvalidEventError("malformed activity payload").WithCause(err)
	}

	var ts time.Time
	if req.Timestamp > 0 {
		ts = time.Unix(req.Timestamp, 0)
	}

	ev, err := activity.NewEvent(req.URL, req.WindowTitle, req.AppName, req.FilePath, activity.ParseEventKind(req.Type), ts)
	if err != nil {
		s.metrics.EventsRejected.Inc()
		s.logger.Warn("Rejected activity event",
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return RecordActivityResponse{}, err
	}

	key := s.store.Ingest(ev)
	s.metrics.EventsIngested.Inc()

	// Log persistence is best effort: a storage failure must not undo an
	// ingested event or surface to the extension.
	if err := s.log.Append(ctx, ev); err != nil {
		s.logger.Error("Failed to persist activity event",
			zap.String("eventID", ev.ID()),
			zap.Error(err),
		)
	}

	s.rollOverFinishedDays(ctx)

	s.logger.Debug("Recorded activity event",
		zap.String("eventID", ev.ID()),
		zap.String("kind", string(ev.Kind())),
		zap.String("day", key.Day),
		zap.Int("hour", key.Hour),
	)

	return RecordActivityResponse{
		Status: "logged",
		ID:     ev.ID(),
		Day:    key.Day,
		Hour:   key.Hour,
	}, nil
}

// rollOverFinishedDays archives every day strictly before today and removes
// it from the in-memory store. A late event for an archived day recreates
// only its own bucket, so the re-archive is a partial snapshot; ArchiveDay
// merges it into the stored row, keeping the archive cumulative.
func (s *TrackerService) rollOverFinishedDays(ctx context.Context) {
	today := s.store.Today(s.now())
	for _, day := range s.store.Days() {
		if day >= today {
			continue
		}
		archived := s.store.Prune(day)
		if err := s.log.ArchiveDay(ctx, archived); err != nil {
			s.logger.Error("Failed to archive finished day",
				zap.String("day", day),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Archived finished day",
				zap.String("day", day),
				zap.Int("events", archived.TotalEvents()),
			)
		}
	}
}
