package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHourFocusBounds(t *testing.T) {
	a := NewAnalyzer()

	for distinct := 0; distinct <= 20; distinct++ {
		for _, count := range []int{0, 1, 5, 12, 50, 500} {
			focus := a.HourFocus(distinct, count)
			assert.GreaterOrEqual(t, focus, 0, "distinct=%d count=%d", distinct, count)
			assert.LessOrEqual(t, focus, 100, "distinct=%d count=%d", distinct, count)
		}
	}
}

func TestHourFocusMonotoneInDistinctLabels(t *testing.T) {
	a := NewAnalyzer()

	for _, count := range []int{1, 4, 12, 30} {
		prev := a.HourFocus(1, count)
		for distinct := 2; distinct <= 10; distinct++ {
			cur := a.HourFocus(distinct, count)
			assert.LessOrEqual(t, cur, prev, "focus must not increase with diversity at count=%d", count)
			prev = cur
		}
	}
}

func TestHourFocusSingleLabelBeatsScattered(t *testing.T) {
	a := NewAnalyzer()

	sustained := a.HourFocus(1, 8)
	scattered := a.HourFocus(4, 8)
	assert.Greater(t, sustained, scattered)
	assert.Equal(t, 100, sustained)
}

func TestHourFocusEmptyBucket(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, 0, a.HourFocus(0, 0))
}

func TestDayFocus(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, 0, a.DayFocus(nil))
	assert.Equal(t, 88, a.DayFocus([]int{75, 100}))
	assert.Equal(t, 50, a.DayFocus([]int{50}))
}

func TestPredict(t *testing.T) {
	a := NewAnalyzer()

	t.Run("empty history predicts zero", func(t *testing.T) {
		assert.Equal(t, 0, a.Predict(nil))
	})

	t.Run("trailing mean of last three hours", func(t *testing.T) {
		assert.Equal(t, 4, a.Predict([]int{100, 2, 4, 6}))
	})

	t.Run("shorter history uses what exists", func(t *testing.T) {
		assert.Equal(t, 2, a.Predict([]int{2, 1}))
		assert.Equal(t, 7, a.Predict([]int{7}))
	})

	t.Run("deterministic", func(t *testing.T) {
		history := []int{3, 9, 6}
		assert.Equal(t, a.Predict(history), a.Predict(history))
	})
}
