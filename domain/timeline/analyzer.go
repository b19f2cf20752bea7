package timeline

import "math"

// Analyzer derives per-hour focus, the day-level focus score, and the
// next-hour activity prediction. All derivations are pure and deterministic:
// the same bucket state always yields the same scores, so recomputation is
// idempotent.
type Analyzer struct {
	// trailingHours bounds the history window the prediction averages over.
	trailingHours int
}

// NewAnalyzer creates an analyzer with the default trailing window.
func NewAnalyzer() *Analyzer {
	return &Analyzer{trailingHours: defaultTrailingHours}
}

const (
	// Each additional distinct label in an hour costs a fixed focus penalty:
	// context switching is what the score punishes.
	switchPenalty = 25

	// Hours with more than sustainedEventCap raw events decay slowly; a
	// hyperactive hour is weak evidence of sustained attention.
	sustainedEventCap = 12
	overflowPenalty   = 5

	defaultTrailingHours = 3
)

// HourFocus scores one hour from its distinct-label count and raw event
// count. The result is always in [0,100] and never increases as the distinct
// count grows at a fixed event count. An empty hour scores zero.
func (a *Analyzer) HourFocus(distinctLabels, eventCount int) int {
	if eventCount == 0 || distinctLabels == 0 {
		return 0
	}
	score := 100 - switchPenalty*(distinctLabels-1)
	if eventCount > sustainedEventCap {
		score -= overflowPenalty * (eventCount - sustainedEventCap)
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// DayFocus is the unweighted mean of the populated hours' focus values,
// rounded to an integer. Zero when no hours are populated.
func (a *Analyzer) DayFocus(hourFocus []int) int {
	if len(hourFocus) == 0 {
		return 0
	}
	sum := 0
	for _, f := range hourFocus {
		sum += f
	}
	return int(math.Round(float64(sum) / float64(len(hourFocus))))
}

// Predict estimates the next hour's activity count from the event counts of
// populated hours in chronological order: the rounded mean of the trailing
// window. Empty history predicts zero. More recent activity never spuriously
// lowers the estimate, since only the trailing hours participate.
func (a *Analyzer) Predict(countsByHour []int) int {
	if len(countsByHour) == 0 {
		return 0
	}
	window := a.trailingHours
	if window > len(countsByHour) {
		window = len(countsByHour)
	}
	sum := 0
	for _, c := range countsByHour[len(countsByHour)-window:] {
		sum += c
	}
	return int(math.Round(float64(sum) / float64(window)))
}
