// Package activity defines the observed-action value types that feed the
// timeline. Events are immutable once constructed; all validation and
// normalization happens in the constructor.
package activity

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "lifeline-backend/pkg/errors"
)

// EventKind classifies the source of an observed action.
type EventKind string

const (
	KindTab   EventKind = "tab"
	KindApp   EventKind = "app"
	KindFile  EventKind = "file"
	KindOther EventKind = "other"
)

// ParseEventKind maps a raw type string from the extension to a closed kind.
// Unknown values collapse to KindOther rather than failing ingestion.
func ParseEventKind(raw string) EventKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tab":
		return KindTab
	case "app":
		return KindApp
	case "file", "file_edit":
		return KindFile
	default:
		return KindOther
	}
}

// Event is a single observed action: a tab load, a window switch, or a file
// touch. At least one of URL and WindowTitle is non-empty.
type Event struct {
	id          string
	timestamp   time.Time
	url         string
	windowTitle string
	appName     string
	filePath    string
	kind        EventKind
}

// NewEvent validates and normalizes a raw observation. Text fields are
// trimmed, the timestamp is clamped to UTC (arrival time when zero), and an
// unspecified kind becomes KindOther.
func NewEvent(rawURL, windowTitle, appName, filePath string, kind EventKind, ts time.Time) (Event, error) {
	rawURL = strings.TrimSpace(rawURL)
	windowTitle = strings.TrimSpace(windowTitle)
	appName = strings.TrimSpace(appName)
	filePath = strings.TrimSpace(filePath)

	if rawURL == "" && windowTitle == "" {
		return Event{}, apperrors.NewInvalidEventError("event requires a url or a window title")
	}

	if kind == "" {
		kind = KindOther
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	return Event{
		id:          uuid.NewString(),
		timestamp:   ts.UTC(),
		url:         rawURL,
		windowTitle: windowTitle,
		appName:     appName,
		filePath:    filePath,
		kind:        kind,
	}, nil
}

// ID returns the unique event identifier.
func (e Event) ID() string { return e.id }

// Timestamp returns the UTC instant the action was observed.
func (e Event) Timestamp() time.Time { return e.timestamp }

// URL returns the page URL, if any.
func (e Event) URL() string { return e.url }

// WindowTitle returns the window title, if any.
func (e Event) WindowTitle() string { return e.windowTitle }

// AppName returns the owning application name, if any.
func (e Event) AppName() string { return e.appName }

// FilePath returns the touched file path, if any.
func (e Event) FilePath() string { return e.filePath }

// Kind returns the event classification.
func (e Event) Kind() EventKind { return e.kind }

// Label derives the activity label folded into the hour bucket: the URL host
// for tab events, falling back to the app name, then the window title. A URL
// that does not parse contributes its raw text rather than nothing.
func (e Event) Label() string {
	if e.url != "" {
		if u, err := url.Parse(e.url); err == nil && u.Host != "" {
			return strings.TrimPrefix(u.Host, "www.")
		}
		return e.url
	}
	if e.appName != "" {
		return e.appName
	}
	return e.windowTitle
}
