package engine

import (
	"strings"
	"testing"
)

func TestFlagRiskMedications_Match(t *testing.T) {
	meds := []MedicationRecord{
		{Name: "Lisinopril 10mg", Active: true},
		{Name: "IBUPROFEN 400mg", Active: true},
	}
	got := FlagRiskMedications(meds, DefaultConfig().RiskMedications)
	if !got.Flagged {
		t.Fatal("expected flag for active NSAID")
	}
	if !strings.Contains(got.Note, "IBUPROFEN 400mg") {
		t.Errorf("note should name the medication, got %q", got.Note)
	}
}

func TestFlagRiskMedications_InactiveIgnored(t *testing.T) {
	meds := []MedicationRecord{{Name: "Ibuprofen", Active: false}}
	if got := FlagRiskMedications(meds, DefaultConfig().RiskMedications); got.Flagged {
		t.Error("inactive medications must not be flagged")
	}
}

func TestFlagRiskMedications_NoMatch(t *testing.T) {
	meds := []MedicationRecord{{Name: "Lisinopril", Active: true}, {Name: "Metoprolol", Active: true}}
	got := FlagRiskMedications(meds, DefaultConfig().RiskMedications)
	if got.Flagged {
		t.Errorf("unexpected flag: %q", got.Note)
	}
	if got.Note != "" {
		t.Errorf("expected empty note, got %q", got.Note)
	}
}

func TestFlagRiskMedications_EmptyList(t *testing.T) {
	meds := []MedicationRecord{{Name: "Ibuprofen", Active: true}}
	if got := FlagRiskMedications(meds, nil); got.Flagged {
		t.Error("empty risk list must never flag")
	}
}
