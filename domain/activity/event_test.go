package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lifeline-backend/pkg/errors"
)

func TestNewEventRejectsBlankSources(t *testing.T) {
	_, err := NewEvent("", "   ", "", "", KindTab, time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidEvent))
}

func TestNewEventNormalizes(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	ev, err := NewEvent("  https://a.com/x  ", "  Title  ", "", "", "", ts)
	require.NoError(t, err)

	assert.Equal(t, "https://a.com/x", ev.URL())
	assert.Equal(t, "Title", ev.WindowTitle())
	assert.Equal(t, KindOther, ev.Kind(), "unspecified kind defaults to other")
	assert.Equal(t, time.UTC, ev.Timestamp().Location())
	assert.NotEmpty(t, ev.ID())
}

func TestNewEventDefaultsTimestampToArrival(t *testing.T) {
	before := time.Now().UTC()
	ev, err := NewEvent("https://a.com", "", "", "", KindTab, time.Time{})
	require.NoError(t, err)
	after := time.Now().UTC()

	assert.False(t, ev.Timestamp().Before(before))
	assert.False(t, ev.Timestamp().After(after))
}

func TestParseEventKind(t *testing.T) {
	cases := map[string]EventKind{
		"tab":       KindTab,
		"TAB":       KindTab,
		"app":       KindApp,
		"file":      KindFile,
		"file_edit": KindFile,
		"video":     KindOther,
		"":          KindOther,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseEventKind(raw), "raw=%q", raw)
	}
}

func TestLabelDerivation(t *testing.T) {
	t.Run("url host wins", func(t *testing.T) {
		ev, err := NewEvent("https://www.example.com/path?q=1", "Some title", "browser", "", KindTab, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "example.com", ev.Label())
	})

	t.Run("app name before window title", func(t *testing.T) {
		ev, err := NewEvent("", "Editing notes", "editor", "", KindApp, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "editor", ev.Label())
	})

	t.Run("window title as fallback", func(t *testing.T) {
		ev, err := NewEvent("", "Editing notes", "", "", KindApp, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "Editing notes", ev.Label())
	})

	t.Run("unparseable url keeps raw text", func(t *testing.T) {
		ev, err := NewEvent("not a url", "", "", "", KindTab, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "not a url", ev.Label())
	})
}
