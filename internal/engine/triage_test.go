package engine

import (
	"testing"
	"time"
)

func TestTriageMessages_RiskKeyword(t *testing.T) {
	msgs := []PatientMessage{
		{Text: "I have chest pain since this morning", SentAt: asOf.Add(-2 * time.Hour)},
	}
	got := TriageMessages(msgs, DefaultConfig().RiskKeywords, asOf)
	if !got.Flagged {
		t.Fatal("expected triage to flag a risk keyword")
	}
	if got.HoursAgo != 2 {
		t.Errorf("expected 2 hours ago, got %d", got.HoursAgo)
	}
}

func TestTriageMessages_UrgentFlag(t *testing.T) {
	msgs := []PatientMessage{
		{Text: "please call me back", Urgent: true, SentAt: asOf.Add(-30 * time.Minute)},
	}
	got := TriageMessages(msgs, DefaultConfig().RiskKeywords, asOf)
	if !got.Flagged {
		t.Fatal("expected triage to flag an urgent message")
	}
	if got.Reason != "clinician-flagged urgent" {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestTriageMessages_ReadMessagesNeverTrigger(t *testing.T) {
	msgs := []PatientMessage{
		{Text: "severe chest pain", Read: true, SentAt: asOf.Add(-1 * time.Hour)},
		{Text: "urgent please", Urgent: true, Read: true, SentAt: asOf.Add(-1 * time.Hour)},
	}
	got := TriageMessages(msgs, DefaultConfig().RiskKeywords, asOf)
	if got.Flagged {
		t.Error("read messages must never trigger triage")
	}
}

func TestTriageMessages_BenignUnread(t *testing.T) {
	msgs := []PatientMessage{{Text: "thanks doc, see you next month", SentAt: asOf.Add(-4 * time.Hour)}}
	if got := TriageMessages(msgs, DefaultConfig().RiskKeywords, asOf); got.Flagged {
		t.Errorf("unexpected triage flag: %q", got.Reason)
	}
}

func TestTriageMessages_NoMessages(t *testing.T) {
	if got := TriageMessages(nil, DefaultConfig().RiskKeywords, asOf); got.Flagged {
		t.Error("no messages must not flag")
	}
}

func TestDaysSinceLastContact(t *testing.T) {
	msgs := []PatientMessage{
		{Text: "old", Read: true, SentAt: asOf.AddDate(0, 0, -40)},
		{Text: "newer", Read: true, SentAt: asOf.AddDate(0, 0, -6)},
	}
	if got := DaysSinceLastContact(msgs, asOf); got != 6 {
		t.Errorf("expected 6 days, got %d", got)
	}
}

func TestDaysSinceLastContact_IndependentOfTriage(t *testing.T) {
	// Read state does not matter for contact recency.
	msgs := []PatientMessage{{Text: "hi", Read: true, SentAt: asOf.AddDate(0, 0, -3)}}
	if got := DaysSinceLastContact(msgs, asOf); got != 3 {
		t.Errorf("expected 3 days, got %d", got)
	}
}

func TestDaysSinceLastContact_NoMessages(t *testing.T) {
	if got := DaysSinceLastContact(nil, asOf); got != -1 {
		t.Errorf("expected -1 for never contacted, got %d", got)
	}
}
