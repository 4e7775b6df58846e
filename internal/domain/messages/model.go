package messages

import (
	"time"

	"github.com/google/uuid"
)

// Message maps to the patient_message table.
type Message struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	Body      string     `db:"body" json:"body"`
	Urgent    bool       `db:"urgent" json:"urgent"`
	SentAt    time.Time  `db:"sent_at" json:"sent_at"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Read reports whether the message has been reviewed.
func (m *Message) Read() bool {
	return m.ReadAt != nil
}
