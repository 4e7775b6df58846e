package engine

import (
	"fmt"
	"strings"
	"time"
)

// TriageMessages scans unread patient messages for clinician-flagged
// urgency or configured high-risk keywords. Already-read messages never
// trigger, regardless of content. The first matching unread message wins.
func TriageMessages(msgs []PatientMessage, keywords []string, asOf time.Time) TriageResult {
	for _, msg := range msgs {
		if msg.Read {
			continue
		}
		if msg.Urgent {
			return TriageResult{
				Flagged:  true,
				HoursAgo: hoursSince(msg.SentAt, asOf),
				Reason:   "clinician-flagged urgent",
			}
		}
		text := strings.ToLower(msg.Text)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				return TriageResult{
					Flagged:  true,
					HoursAgo: hoursSince(msg.SentAt, asOf),
					Reason:   fmt.Sprintf("risk keyword %q", kw),
				}
			}
		}
	}
	return TriageResult{}
}

// DaysSinceLastContact returns whole days since the most recent message
// of any read state, or -1 when the patient has never written.
func DaysSinceLastContact(msgs []PatientMessage, asOf time.Time) int {
	var newest *time.Time
	for i := range msgs {
		sent := msgs[i].SentAt
		if newest == nil || sent.After(*newest) {
			newest = &sent
		}
	}
	if newest == nil {
		return -1
	}
	return daysSince(*newest, asOf)
}

func hoursSince(t, asOf time.Time) int {
	h := int(asOf.Sub(t).Hours())
	if h < 0 {
		return 0
	}
	return h
}

func daysSince(t, asOf time.Time) int {
	d := int(asOf.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
