package engine

import (
	"fmt"
	"strings"
)

// FlagRiskMedications reports whether any active medication name
// contains an entry of the renal-risk list. Presence only: no dosage,
// interaction or severity reasoning.
func FlagRiskMedications(meds []MedicationRecord, riskList []string) MedicationFlag {
	for _, med := range meds {
		if !med.Active {
			continue
		}
		name := strings.ToLower(med.Name)
		for _, risk := range riskList {
			if risk == "" {
				continue
			}
			if strings.Contains(name, strings.ToLower(risk)) {
				return MedicationFlag{
					Flagged: true,
					Note:    fmt.Sprintf("active medication %q matches renal-risk entry %q", med.Name, risk),
				}
			}
		}
	}
	return MedicationFlag{}
}
