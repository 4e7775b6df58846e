package messages

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ── Mock Repository ──

type mockRepo struct {
	data map[uuid.UUID]*Message
}

func (m *mockRepo) Create(_ context.Context, msg *Message) error {
	msg.ID = uuid.New()
	m.data[msg.ID] = msg
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	if msg, ok := m.data[id]; ok {
		return msg, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockRepo) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	if msg, ok := m.data[id]; ok && msg.ReadAt == nil {
		msg.ReadAt = &at
	}
	return nil
}
func (m *mockRepo) MarkUrgent(_ context.Context, id uuid.UUID, urgent bool) error {
	if msg, ok := m.data[id]; ok {
		msg.Urgent = urgent
	}
	return nil
}
func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	var out []*Message
	for _, msg := range m.data {
		if msg.PatientID == patientID {
			out = append(out, msg)
		}
	}
	return out, len(out), nil
}
func (m *mockRepo) ListUnread(_ context.Context, patientID uuid.UUID) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.data {
		if msg.PatientID == patientID && msg.ReadAt == nil {
			out = append(out, msg)
		}
	}
	return out, nil
}

var testKeywords = []string{"chest pain", "shortness of breath", "swelling"}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{data: make(map[uuid.UUID]*Message)}
	return NewService(repo, testKeywords), repo
}

// ── Tests ──

func TestReceive(t *testing.T) {
	svc, repo := newTestService()
	m := &Message{PatientID: uuid.New(), Body: "feeling fine"}
	if err := svc.Receive(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.data) != 1 {
		t.Fatalf("expected 1 message, got %d", len(repo.data))
	}
	if m.SentAt.IsZero() {
		t.Error("expected sent_at to default to now")
	}
}

func TestReceive_Validation(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Receive(context.Background(), &Message{Body: "hi"}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if err := svc.Receive(context.Background(), &Message{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestMarkRead(t *testing.T) {
	svc, repo := newTestService()
	m := &Message{PatientID: uuid.New(), Body: "question about diet"}
	if err := svc.Receive(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.MarkRead(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.data[m.ID].ReadAt == nil {
		t.Error("expected read_at to be set")
	}
}

func TestTriage_KeywordFlagged(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	m := &Message{PatientID: pid, Body: "I have chest pain since this morning", SentAt: time.Now().Add(-3 * time.Hour)}
	if err := svc.Receive(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Triage(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Flagged {
		t.Fatal("expected triage flag for risk keyword")
	}
	if result.HoursAgo < 2 || result.HoursAgo > 4 {
		t.Errorf("expected roughly 3 hours ago, got %d", result.HoursAgo)
	}
}

func TestTriage_ReadMessagesIgnored(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	m := &Message{PatientID: pid, Body: "severe chest pain", SentAt: time.Now().Add(-time.Hour)}
	if err := svc.Receive(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.MarkRead(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Triage(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Flagged {
		t.Error("read messages must never trigger triage")
	}
}

func TestTriage_UrgentFlag(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	m := &Message{PatientID: pid, Body: "please call me", Urgent: true, SentAt: time.Now().Add(-time.Hour)}
	if err := svc.Receive(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Triage(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Flagged {
		t.Error("expected triage flag for urgent message")
	}
	if result.Reason != "clinician-flagged urgent" {
		t.Errorf("unexpected reason: %s", result.Reason)
	}
}

func TestTriage_NoMessages(t *testing.T) {
	svc, _ := newTestService()
	result, err := svc.Triage(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Flagged {
		t.Error("expected no flag for empty mailbox")
	}
}
