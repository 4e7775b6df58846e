package medication

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ── Mock Repository ──

type mockRepo struct {
	data map[uuid.UUID]*Record
}

func (m *mockRepo) Create(_ context.Context, r *Record) error {
	r.ID = uuid.New()
	m.data[r.ID] = r
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	if r, ok := m.data[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockRepo) Update(_ context.Context, r *Record) error {
	if _, ok := m.data[r.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.data[r.ID] = r
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.data, id)
	return nil
}
func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var out []*Record
	for _, r := range m.data {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}
func (m *mockRepo) ListActive(_ context.Context, patientID uuid.UUID) ([]*Record, error) {
	var out []*Record
	for _, r := range m.data {
		if r.PatientID == patientID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

var testRiskList = []string{"ibuprofen", "naproxen", "gentamicin"}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{data: make(map[uuid.UUID]*Record)}
	return NewService(repo, testRiskList), repo
}

// ── Tests ──

func TestAddRecord(t *testing.T) {
	svc, repo := newTestService()
	r := &Record{PatientID: uuid.New(), Name: "Lisinopril", Active: true}
	if err := svc.AddRecord(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.data))
	}
}

func TestAddRecord_Validation(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.AddRecord(context.Background(), &Record{Name: "Lisinopril"}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if err := svc.AddRecord(context.Background(), &Record{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for missing name")
	}

	started := time.Now()
	stopped := started.Add(-24 * time.Hour)
	r := &Record{PatientID: uuid.New(), Name: "X", StartedAt: &started, StoppedAt: &stopped}
	if err := svc.AddRecord(context.Background(), r); err == nil {
		t.Error("expected error for stopped_at before started_at")
	}
}

func TestCheckRisk_Flagged(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	for _, name := range []string{"Lisinopril", "Ibuprofen 400mg"} {
		if err := svc.AddRecord(context.Background(), &Record{PatientID: pid, Name: name, Active: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	check, err := svc.CheckRisk(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Flagged {
		t.Error("expected risk flag for active NSAID")
	}
	if check.Note == "" {
		t.Error("expected explanatory note")
	}
}

func TestCheckRisk_InactiveIgnored(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	if err := svc.AddRecord(context.Background(), &Record{PatientID: pid, Name: "Ibuprofen", Active: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	check, err := svc.CheckRisk(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Flagged {
		t.Error("inactive medication must not raise the flag")
	}
}

func TestCheckRisk_NoMedications(t *testing.T) {
	svc, _ := newTestService()

	check, err := svc.CheckRisk(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Flagged {
		t.Error("expected no flag for empty medication list")
	}
}
