// Package timeline owns the bucketed-by-hour aggregate of a day's activity
// and the derived focus and prediction metrics. The Store is the only writer;
// readers work from immutable snapshots.
package timeline

import (
	"sort"
	"time"

	"lifeline-backend/domain/activity"
)

// DayFormat is the layout for day identifiers used as bucket key prefixes.
const DayFormat = "2006-01-02"

// HourKey identifies one clock hour of one day in the store's timezone.
type HourKey struct {
	Day  string
	Hour int
}

// HourKeyFor maps an instant to its bucket key in the given zone.
func HourKeyFor(t time.Time, loc *time.Location) HourKey {
	local := t.In(loc)
	return HourKey{
		Day:  local.Format(DayFormat),
		Hour: local.Hour(),
	}
}

// bucket is the mutable aggregate for one hour. All mutation happens under
// the bucket's own lock, held by the store.
type bucket struct {
	key         HourKey
	apps        []string       // distinct labels in insertion order
	labelCounts map[string]int // repeat observations per label
	eventCount  int
	focus       int
}

func newBucket(key HourKey) *bucket {
	return &bucket{
		key:         key,
		labelCounts: make(map[string]int),
	}
}

// fold adds one event to the bucket. Duplicate labels collapse into a count
// instead of repeating in apps; eventCount tracks raw events.
func (b *bucket) fold(ev activity.Event) {
	label := ev.Label()
	if label != "" {
		if _, seen := b.labelCounts[label]; !seen {
			b.apps = append(b.apps, label)
		}
		b.labelCounts[label]++
	}
	b.eventCount++
}

// HourView is the immutable read model of one bucket.
type HourView struct {
	Apps       []string       `json:"apps"`
	Focus      int            `json:"focus"`
	EventCount int            `json:"event_count"`
	Labels     map[string]int `json:"labels,omitempty"`
}

// Timeline is an immutable snapshot of one day: every populated hour plus the
// day-level derived metrics.
type Timeline struct {
	Day        string           `json:"day"`
	Hours      map[int]HourView `json:"timeline"`
	FocusScore int              `json:"focus_score"`
	Prediction int              `json:"prediction"`
}

// TotalEvents sums raw event counts across all populated hours.
func (t Timeline) TotalEvents() int {
	total := 0
	for _, h := range t.Hours {
		total += h.EventCount
	}
	return total
}

// Merge combines two snapshots of the same day into one, summing per-hour
// activity and re-deriving hour focus and the day metrics. Late events that
// arrive after a day was rolled over produce partial snapshots; merging them
// into the stored one keeps the archive cumulative instead of replacing it.
func (t Timeline) Merge(other Timeline, a *Analyzer) Timeline {
	day := t.Day
	if day == "" {
		day = other.Day
	}

	hours := make(map[int]HourView, len(t.Hours)+len(other.Hours))
	for h, v := range t.Hours {
		hours[h] = cloneHourView(v)
	}
	for h, v := range other.Hours {
		cur, ok := hours[h]
		if !ok {
			hours[h] = cloneHourView(v)
			continue
		}
		hours[h] = mergeHourViews(cur, v, a)
	}

	populated := make([]int, 0, len(hours))
	for h := range hours {
		populated = append(populated, h)
	}
	sort.Ints(populated)

	focus := make([]int, len(populated))
	counts := make([]int, len(populated))
	for i, h := range populated {
		focus[i] = hours[h].Focus
		counts[i] = hours[h].EventCount
	}

	return Timeline{
		Day:        day,
		Hours:      hours,
		FocusScore: a.DayFocus(focus),
		Prediction: a.Predict(counts),
	}
}

func cloneHourView(v HourView) HourView {
	apps := make([]string, len(v.Apps))
	copy(apps, v.Apps)
	v.Apps = apps
	if v.Labels != nil {
		labels := make(map[string]int, len(v.Labels))
		for k, c := range v.Labels {
			labels[k] = c
		}
		v.Labels = labels
	}
	return v
}

// mergeHourViews folds two views of the same hour: label counts add up, the
// app order keeps the first view's labels first, and focus is re-derived from
// the combined totals.
func mergeHourViews(a, b HourView, an *Analyzer) HourView {
	out := cloneHourView(a)
	if out.Labels == nil {
		out.Labels = make(map[string]int)
	}

	seen := make(map[string]struct{}, len(out.Apps))
	for _, app := range out.Apps {
		seen[app] = struct{}{}
	}
	for _, app := range b.Apps {
		if _, dup := seen[app]; dup {
			continue
		}
		seen[app] = struct{}{}
		out.Apps = append(out.Apps, app)
	}
	for label, c := range b.Labels {
		out.Labels[label] += c
	}

	out.EventCount += b.EventCount
	out.Focus = an.HourFocus(len(out.Apps), out.EventCount)
	return out
}

// view deep-copies the bucket so snapshot holders never alias store state.
func (b *bucket) view() HourView {
	apps := make([]string, len(b.apps))
	copy(apps, b.apps)
	labels := make(map[string]int, len(b.labelCounts))
	for k, v := range b.labelCounts {
		labels[k] = v
	}
	return HourView{
		Apps:       apps,
		Focus:      b.focus,
		EventCount: b.eventCount,
		Labels:     labels,
	}
}
