package timeline

import (
	"sort"
	"sync"
	"time"

	"lifeline-backend/domain/activity"
)

// Store is the arena owning every hour bucket for the days it has seen.
// Mutation is serialized per bucket so concurrent ingestion into different
// hours does not contend; readers get deep snapshots and never observe a
// half-updated bucket. The timezone is fixed at construction and defines the
// wall-clock hour every event maps to.
type Store struct {
	zone     *time.Location
	analyzer *Analyzer

	mu      sync.RWMutex // guards the bucket map and derived day metrics
	buckets map[HourKey]*lockedBucket
	derived map[string]dayMetrics
}

type lockedBucket struct {
	mu sync.Mutex
	b  *bucket
}

type dayMetrics struct {
	focusScore int
	prediction int
}

// NewStore creates an empty store for the given timezone.
func NewStore(zone *time.Location, analyzer *Analyzer) *Store {
	if zone == nil {
		zone = time.UTC
	}
	return &Store{
		zone:     zone,
		analyzer: analyzer,
		buckets:  make(map[HourKey]*lockedBucket),
		derived:  make(map[string]dayMetrics),
	}
}

// Zone returns the wall-clock zone buckets are keyed in.
func (s *Store) Zone() *time.Location { return s.zone }

// Today returns the day key the given instant falls on.
func (s *Store) Today(now time.Time) string {
	return now.In(s.zone).Format(DayFormat)
}

// Ingest folds one event into its hour bucket, creating the bucket lazily.
// Events timestamped in a past hour update that hour, never the current one,
// and never create a duplicate bucket. Derived day metrics are recomputed
// synchronously, so snapshots are never stale.
func (s *Store) Ingest(ev activity.Event) HourKey {
	key := HourKeyFor(ev.Timestamp(), s.zone)
	slot := s.slot(key)

	slot.mu.Lock()
	slot.b.fold(ev)
	slot.b.focus = s.analyzer.HourFocus(len(slot.b.apps), slot.b.eventCount)
	slot.mu.Unlock()

	s.recomputeDay(key.Day)
	return key
}

// slot finds or creates the locked bucket for a key.
func (s *Store) slot(key HourKey) *lockedBucket {
	s.mu.RLock()
	slot, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return slot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok = s.buckets[key]; ok {
		return slot
	}
	slot = &lockedBucket{b: newBucket(key)}
	s.buckets[key] = slot
	return slot
}

// recomputeDay rebuilds the day-level focus score and prediction from the
// day's populated hours. Concurrent recomputations may race on the write but
// each writes a value derived from a complete pass, so the last write is
// always internally consistent.
func (s *Store) recomputeDay(day string) {
	type hourStat struct {
		hour  int
		focus int
		count int
	}

	s.mu.RLock()
	stats := make([]hourStat, 0, 24)
	for key, slot := range s.buckets {
		if key.Day != day {
			continue
		}
		slot.mu.Lock()
		stats = append(stats, hourStat{hour: key.Hour, focus: slot.b.focus, count: slot.b.eventCount})
		slot.mu.Unlock()
	}
	s.mu.RUnlock()

	sort.Slice(stats, func(i, j int) bool { return stats[i].hour < stats[j].hour })

	focus := make([]int, len(stats))
	counts := make([]int, len(stats))
	for i, st := range stats {
		focus[i] = st.focus
		counts[i] = st.count
	}

	metrics := dayMetrics{
		focusScore: s.analyzer.DayFocus(focus),
		prediction: s.analyzer.Predict(counts),
	}

	s.mu.Lock()
	s.derived[day] = metrics
	s.mu.Unlock()
}

// Snapshot returns a deep, immutable copy of one day's timeline. An unknown
// day yields an empty timeline with zero metrics, which is a valid state.
func (s *Store) Snapshot(day string) Timeline {
	s.mu.RLock()
	slots := make(map[int]*lockedBucket)
	for key, slot := range s.buckets {
		if key.Day == day {
			slots[key.Hour] = slot
		}
	}
	metrics := s.derived[day]
	s.mu.RUnlock()

	hours := make(map[int]HourView, len(slots))
	for hour, slot := range slots {
		slot.mu.Lock()
		hours[hour] = slot.b.view()
		slot.mu.Unlock()
	}

	return Timeline{
		Day:        day,
		Hours:      hours,
		FocusScore: metrics.focusScore,
		Prediction: metrics.prediction,
	}
}

// Days lists every day the store holds buckets for, in ascending order.
func (s *Store) Days() []string {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for key := range s.buckets {
		seen[key.Day] = struct{}{}
	}
	s.mu.RUnlock()

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// Prune snapshots a day and removes its buckets from the store. Used at day
// boundaries to roll a finished day into historical storage.
func (s *Store) Prune(day string) Timeline {
	snapshot := s.Snapshot(day)

	s.mu.Lock()
	for key := range s.buckets {
		if key.Day == day {
			delete(s.buckets, key)
		}
	}
	delete(s.derived, day)
	s.mu.Unlock()

	return snapshot
}

// RecentLabels returns up to limit distinct labels across the day's hours in
// chronological insertion order. Feeds corpus assembly for the intelligence
// gateway.
func (s *Store) RecentLabels(day string, limit int) []string {
	snapshot := s.Snapshot(day)

	hours := make([]int, 0, len(snapshot.Hours))
	for h := range snapshot.Hours {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	seen := make(map[string]struct{})
	labels := make([]string, 0, limit)
	for _, h := range hours {
		for _, label := range snapshot.Hours[h].Apps {
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
			if limit > 0 && len(labels) >= limit {
				return labels
			}
		}
	}
	return labels
}
