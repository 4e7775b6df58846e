package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewKafkaPublisher_Config(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "renalcare.audit", zerolog.Nop())
	defer p.Close()

	if p.writer.Topic != "renalcare.audit" {
		t.Errorf("expected topic renalcare.audit, got %s", p.writer.Topic)
	}
	if p.writer.Async {
		t.Error("expected synchronous writes")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), "snapshot.computed", "u1", "p1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvent_JSONShape(t *testing.T) {
	evt := Event{
		ID:        "e1",
		Type:      "snapshot.computed",
		Actor:     "clinician-1",
		PatientID: "patient-9",
		Data:      map[string]interface{}{"tier": "high-risk"},
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "type", "actor", "patient_id", "data", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in audit event JSON", key)
		}
	}
}
