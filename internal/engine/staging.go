package engine

import (
	"strings"
	"time"
)

// StageFromKidneyFunction maps an eGFR-equivalent value to a CKD stage.
// Higher is healthier.
func StageFromKidneyFunction(value float64) Stage {
	switch {
	case value >= 90:
		return Stage1
	case value >= 60:
		return Stage2
	case value >= 30:
		return Stage3
	case value >= 15:
		return Stage4
	default:
		return Stage5
	}
}

// ResolveEtiology derives the etiology label from explicit history tags
// only. Tags are matched in configuration order by case-insensitive
// substring; without an explicit tag the etiology stays unknown, never
// inferred from comorbidity lists.
func ResolveEtiology(historyTags []string, entries []EtiologyTag) string {
	for _, entry := range entries {
		want := strings.ToLower(entry.Tag)
		for _, tag := range historyTags {
			if strings.Contains(strings.ToLower(tag), want) {
				return entry.Label
			}
		}
	}
	return EtiologyUnknown
}

// RecheckIntervalDays returns the expected lab-recheck interval for a
// stage. Unknown staging falls back to the 90-day default.
func RecheckIntervalDays(stage Stage) int {
	switch stage {
	case Stage5:
		return 15
	case Stage4:
		return 30
	case Stage3:
		return 45
	case Stage2:
		return 90
	case Stage1:
		return 180
	default:
		return 90
	}
}

// LabRecheck determines whether a lab recheck is pending and by how many
// days it is overdue. A patient with no lab on record at all is
// immediately pending.
func LabRecheck(lastLab *time.Time, intervalDays int, asOf time.Time) (pending bool, overdueDays int) {
	if lastLab == nil {
		return true, 0
	}
	due := lastLab.AddDate(0, 0, intervalDays)
	if !due.Before(asOf) {
		return false, 0
	}
	return true, int(asOf.Sub(due).Hours() / 24)
}
