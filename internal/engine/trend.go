package engine

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// trendWindowDays is the lookback window for trend analysis.
const trendWindowDays = 90

// Direction thresholds: percent change beyond ±10% earns an arrow.
const directionThresholdPct = 10.0

// windowPoints returns the points dated within the last lookbackDays
// before asOf (inclusive), sorted chronologically.
func windowPoints(points []TimeSeriesPoint, lookbackDays int, asOf time.Time) []TimeSeriesPoint {
	cutoff := asOf.AddDate(0, 0, -lookbackDays)
	var window []TimeSeriesPoint
	for _, p := range points {
		if !p.Date.Before(cutoff) && !p.Date.After(asOf) {
			window = append(window, p)
		}
	}
	sort.Slice(window, func(i, j int) bool { return window[i].Date.Before(window[j].Date) })
	return window
}

// latestPoint returns the most recent point of the series.
func latestPoint(points []TimeSeriesPoint) (TimeSeriesPoint, bool) {
	if len(points) == 0 {
		return TimeSeriesPoint{}, false
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	return latest, true
}

// AnalyzeTrend computes direction, abnormality and the applicable window
// label for one metric's series against its normal range. A series with
// no points inside the 90-day window yields NoData; abnormality is never
// defaulted to Controlled.
func AnalyzeTrend(points []TimeSeriesPoint, normal Range, asOf time.Time) TrendResult {
	window := windowPoints(points, trendWindowDays, asOf)
	if len(window) == 0 {
		return TrendResult{Status: TrendNoData, Direction: DirectionFlat}
	}

	earliest := window[0]
	latest := window[len(window)-1]

	direction := DirectionFlat
	if earliest.Value != 0 {
		change := (latest.Value - earliest.Value) / earliest.Value * 100
		switch {
		case change > directionThresholdPct:
			direction = DirectionUp
		case change < -directionThresholdPct:
			direction = DirectionDown
		}
	}

	status := TrendControlled
	if !normal.Contains(latest.Value) {
		status = TrendAbnormal
	}

	return TrendResult{
		Status:    status,
		Direction: direction,
		Window:    windowLabel(latest.Date.Sub(earliest.Date)),
		Latest:    latest.Value,
		LatestAt:  latest.Date,
	}
}

// windowLabel buckets the span between the earliest and latest point.
func windowLabel(span time.Duration) string {
	days := span.Hours() / 24
	switch {
	case days <= 14:
		return "last 14 days"
	case days <= 30:
		return "last 30 days"
	default:
		return "last 90 days"
	}
}

// Blood-pressure thresholds: below 140/90 is controlled.
const (
	bpSystolicLimit  = 140.0
	bpDiastolicLimit = 90.0
)

var bpPattern = regexp.MustCompile(`^\s*(\d{1,3})\s*/\s*(\d{1,3})\s*$`)

// ParseBloodPressure parses a combined "systolic/diastolic" reading.
func ParseBloodPressure(raw string) (systolic, diastolic float64, ok bool) {
	m := bpPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	systolic, err1 := strconv.ParseFloat(m[1], 64)
	diastolic, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return systolic, diastolic, true
}

// AnalyzeBloodPressure classifies a combined blood-pressure string. The
// reading has no series, so the direction is always flat and an
// unparseable string yields NoData rather than a guess.
func AnalyzeBloodPressure(raw string) TrendResult {
	systolic, diastolic, ok := ParseBloodPressure(raw)
	if !ok {
		return TrendResult{Status: TrendNoData, Direction: DirectionFlat}
	}
	status := TrendAbnormal
	if systolic < bpSystolicLimit && diastolic < bpDiastolicLimit {
		status = TrendControlled
	}
	return TrendResult{
		Status:    status,
		Direction: DirectionFlat,
		Window:    "current",
		Latest:    systolic,
	}
}
