package labs

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ── Mock Repositories ──

type mockLabRepo struct {
	data map[uuid.UUID]*LabResult
}

func (m *mockLabRepo) Create(_ context.Context, r *LabResult) error {
	r.ID = uuid.New()
	m.data[r.ID] = r
	return nil
}
func (m *mockLabRepo) GetByID(_ context.Context, id uuid.UUID) (*LabResult, error) {
	if r, ok := m.data[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockLabRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.data, id)
	return nil
}
func (m *mockLabRepo) ListByPatient(_ context.Context, patientID uuid.UUID, labType string, limit, offset int) ([]*LabResult, int, error) {
	var out []*LabResult
	for _, r := range m.data {
		if r.PatientID == patientID && (labType == "" || r.LabType == labType) {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}
func (m *mockLabRepo) Latest(_ context.Context, patientID uuid.UUID) (map[string]*LabResult, error) {
	latest := make(map[string]*LabResult)
	for _, r := range m.data {
		if r.PatientID != patientID {
			continue
		}
		if cur, ok := latest[r.LabType]; !ok || r.CollectedAt.After(cur.CollectedAt) {
			latest[r.LabType] = r
		}
	}
	return latest, nil
}
func (m *mockLabRepo) Series(_ context.Context, patientID uuid.UUID, labType string, since time.Time) ([]*LabResult, error) {
	var out []*LabResult
	for _, r := range m.data {
		if r.PatientID == patientID && r.LabType == labType && !r.CollectedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CollectedAt.Before(out[j].CollectedAt) })
	return out, nil
}

type mockVitalsRepo struct {
	data map[uuid.UUID]*VitalsReading
}

func (m *mockVitalsRepo) Create(_ context.Context, v *VitalsReading) error {
	v.ID = uuid.New()
	m.data[v.ID] = v
	return nil
}
func (m *mockVitalsRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsReading, int, error) {
	var out []*VitalsReading
	for _, v := range m.data {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, len(out), nil
}
func (m *mockVitalsRepo) Latest(_ context.Context, patientID uuid.UUID) (*VitalsReading, error) {
	var latest *VitalsReading
	for _, v := range m.data {
		if v.PatientID != patientID {
			continue
		}
		if latest == nil || v.RecordedAt.After(latest.RecordedAt) {
			latest = v
		}
	}
	return latest, nil
}

type mockOverrideRepo struct {
	data map[uuid.UUID]*ScheduleOverride
}

func (m *mockOverrideRepo) Upsert(_ context.Context, o *ScheduleOverride) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.data[o.PatientID] = o
	return nil
}
func (m *mockOverrideRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*ScheduleOverride, error) {
	return m.data[patientID], nil
}
func (m *mockOverrideRepo) Delete(_ context.Context, patientID uuid.UUID) error {
	delete(m.data, patientID)
	return nil
}

func newTestService() (*Service, *mockLabRepo, *mockVitalsRepo, *mockOverrideRepo) {
	labRepo := &mockLabRepo{data: make(map[uuid.UUID]*LabResult)}
	vitalsRepo := &mockVitalsRepo{data: make(map[uuid.UUID]*VitalsReading)}
	overrideRepo := &mockOverrideRepo{data: make(map[uuid.UUID]*ScheduleOverride)}
	return NewService(labRepo, vitalsRepo, overrideRepo), labRepo, vitalsRepo, overrideRepo
}

// ── Lab Result Tests ──

func TestRecordResult(t *testing.T) {
	svc, repo, _, _ := newTestService()
	pid := uuid.New()

	r := &LabResult{
		PatientID:   pid,
		LabType:     "egfr",
		Value:       55,
		CollectedAt: time.Now().Add(-24 * time.Hour),
	}
	if err := svc.RecordResult(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.data) != 1 {
		t.Fatalf("expected 1 stored result, got %d", len(repo.data))
	}
	if r.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestRecordResult_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	pid := uuid.New()
	now := time.Now()
	refMin, refMax := 5.0, 1.0

	cases := []struct {
		name string
		r    *LabResult
	}{
		{"missing patient", &LabResult{LabType: "egfr", Value: 55, CollectedAt: now}},
		{"missing type", &LabResult{PatientID: pid, Value: 55, CollectedAt: now}},
		{"missing collected_at", &LabResult{PatientID: pid, LabType: "egfr", Value: 55}},
		{"inverted reference range", &LabResult{PatientID: pid, LabType: "egfr", Value: 55, CollectedAt: now, RefMin: &refMin, RefMax: &refMax}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.RecordResult(context.Background(), tc.r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLatestResults(t *testing.T) {
	svc, _, _, _ := newTestService()
	pid := uuid.New()
	now := time.Now()

	for i, offset := range []time.Duration{-72 * time.Hour, -48 * time.Hour, -24 * time.Hour} {
		r := &LabResult{
			PatientID:   pid,
			LabType:     "egfr",
			Value:       float64(50 + i),
			CollectedAt: now.Add(offset),
		}
		if err := svc.RecordResult(context.Background(), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	latest, err := svc.LatestResults(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest["egfr"] == nil || latest["egfr"].Value != 52 {
		t.Errorf("expected latest egfr value 52, got %+v", latest["egfr"])
	}
}

func TestResultSeries_RequiresType(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.ResultSeries(context.Background(), uuid.New(), "", time.Time{}); err == nil {
		t.Error("expected error for missing lab_type")
	}
}

// ── Vitals Tests ──

func TestRecordVitals_BloodPressureFormat(t *testing.T) {
	svc, _, _, _ := newTestService()
	pid := uuid.New()

	good := "128/82"
	v := &VitalsReading{PatientID: pid, BloodPressure: &good, RecordedAt: time.Now()}
	if err := svc.RecordVitals(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := "high"
	v2 := &VitalsReading{PatientID: pid, BloodPressure: &bad, RecordedAt: time.Now()}
	if err := svc.RecordVitals(context.Background(), v2); err == nil {
		t.Error("expected error for malformed blood pressure")
	}
}

// ── Schedule Override Tests ──

func TestSetOverride(t *testing.T) {
	svc, _, _, repo := newTestService()
	pid := uuid.New()

	o := &ScheduleOverride{PatientID: pid, IntervalDays: 21}
	if err := svc.SetOverride(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.data[pid] == nil || repo.data[pid].IntervalDays != 21 {
		t.Error("expected override to be stored")
	}

	// Upsert replaces the existing row
	o2 := &ScheduleOverride{PatientID: pid, IntervalDays: 14}
	if err := svc.SetOverride(context.Background(), o2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.data[pid].IntervalDays != 14 {
		t.Errorf("expected interval 14 after upsert, got %d", repo.data[pid].IntervalDays)
	}
}

func TestSetOverride_RejectsNonPositive(t *testing.T) {
	svc, _, _, _ := newTestService()
	o := &ScheduleOverride{PatientID: uuid.New(), IntervalDays: 0}
	if err := svc.SetOverride(context.Background(), o); err == nil {
		t.Error("expected error for non-positive interval")
	}
}

func TestClearOverride(t *testing.T) {
	svc, _, _, repo := newTestService()
	pid := uuid.New()

	if err := svc.SetOverride(context.Background(), &ScheduleOverride{PatientID: pid, IntervalDays: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ClearOverride(context.Background(), pid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.data[pid] != nil {
		t.Error("expected override to be removed")
	}
}
