package engine

import (
	"testing"
)

func TestStageFromKidneyFunction_Boundaries(t *testing.T) {
	cases := []struct {
		value float64
		want  Stage
	}{
		{120, Stage1},
		{90, Stage1},
		{89.9, Stage2},
		{60, Stage2},
		{59.9, Stage3},
		{30, Stage3},
		{29.9, Stage4},
		{15, Stage4},
		{14.9, Stage5},
		{5, Stage5},
	}
	for _, tc := range cases {
		if got := StageFromKidneyFunction(tc.value); got != tc.want {
			t.Errorf("value %v: expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestResolveEtiology_ExplicitTag(t *testing.T) {
	tags := []string{"CKD stage 3", "Diabetic Nephropathy (biopsy confirmed)"}
	got := ResolveEtiology(tags, DefaultConfig().EtiologyTags)
	if got != "diabetic nephropathy" {
		t.Errorf("expected diabetic nephropathy, got %q", got)
	}
}

func TestResolveEtiology_NeverInferred(t *testing.T) {
	// Comorbidities alone must not establish an etiology.
	tags := []string{"type 2 diabetes", "hypertension"}
	got := ResolveEtiology(tags, DefaultConfig().EtiologyTags)
	if got != EtiologyUnknown {
		t.Errorf("expected unknown, got %q", got)
	}
}

func TestResolveEtiology_NoTags(t *testing.T) {
	if got := ResolveEtiology(nil, DefaultConfig().EtiologyTags); got != EtiologyUnknown {
		t.Errorf("expected unknown, got %q", got)
	}
}

func TestRecheckIntervalDays(t *testing.T) {
	cases := []struct {
		stage Stage
		want  int
	}{
		{Stage5, 15},
		{Stage4, 30},
		{Stage3, 45},
		{Stage2, 90},
		{Stage1, 180},
		{StageUnknown, 90},
	}
	for _, tc := range cases {
		if got := RecheckIntervalDays(tc.stage); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.stage, tc.want, got)
		}
	}
}

func TestLabRecheck_OverdueByOneDay(t *testing.T) {
	lastLab := asOf.AddDate(0, 0, -31)
	pending, overdue := LabRecheck(&lastLab, 30, asOf)
	if !pending {
		t.Fatal("expected pending")
	}
	if overdue != 1 {
		t.Errorf("expected overdue by 1 day, got %d", overdue)
	}
}

func TestLabRecheck_NotYetDue(t *testing.T) {
	lastLab := asOf.AddDate(0, 0, -20)
	pending, overdue := LabRecheck(&lastLab, 30, asOf)
	if pending {
		t.Error("expected not pending")
	}
	if overdue != 0 {
		t.Errorf("expected 0 overdue days, got %d", overdue)
	}
}

func TestLabRecheck_NoLabAtAll(t *testing.T) {
	pending, overdue := LabRecheck(nil, 90, asOf)
	if !pending {
		t.Error("a patient with no labs is immediately pending")
	}
	if overdue != 0 {
		t.Errorf("expected 0 overdue days, got %d", overdue)
	}
}

func TestLabRecheck_DueExactlyNow(t *testing.T) {
	lastLab := asOf.AddDate(0, 0, -30)
	pending, _ := LabRecheck(&lastLab, 30, asOf)
	if pending {
		t.Error("due exactly now is not yet overdue")
	}
}
