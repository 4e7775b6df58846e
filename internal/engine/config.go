package engine

// Range is an inclusive normal range for a metric. Values inside the
// bounds are normal; values strictly outside are abnormal.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the inclusive bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// EtiologyTag maps an explicit history tag substring to the etiology
// label it establishes. Matching is ordered so results are reproducible.
type EtiologyTag struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// Config is the immutable configuration injected into the engine. Lists
// are matched case-insensitively. Deployments may override any of them;
// the defaults reflect standard nephrology practice.
type Config struct {
	RiskMedications []string
	RiskKeywords    []string
	EtiologyTags    []EtiologyTag
	ReferenceRanges map[string]Range
}

// DefaultConfig returns the production default configuration.
func DefaultConfig() Config {
	return Config{
		RiskMedications: []string{
			// NSAIDs
			"ibuprofen", "naproxen", "diclofenac", "ketorolac", "indomethacin",
			// Aminoglycoside antibiotics
			"gentamicin", "tobramycin", "amikacin",
			// Glycopeptides
			"vancomycin",
			// Calcineurin inhibitors
			"tacrolimus", "cyclosporine",
			// Mood stabilisers
			"lithium",
			// Iodinated contrast agents
			"iohexol", "iopamidol", "iodixanol",
		},
		RiskKeywords: []string{
			"chest pain", "short of breath", "shortness of breath",
			"can't breathe", "cannot breathe",
			"no urine", "blood in urine",
			"swelling", "swollen",
			"fainted", "passed out", "dizzy",
			"vomiting",
		},
		EtiologyTags: []EtiologyTag{
			{Tag: "diabetic nephropathy", Label: "diabetic nephropathy"},
			{Tag: "hypertensive nephropathy", Label: "hypertensive nephropathy"},
			{Tag: "glomerulonephritis", Label: "glomerulonephritis"},
			{Tag: "polycystic kidney", Label: "polycystic kidney disease"},
			{Tag: "obstructive uropathy", Label: "obstructive uropathy"},
		},
		ReferenceRanges: map[string]Range{
			LabKidneyFunction: {Min: 60, Max: 250},
			LabCreatinine:     {Min: 0.7, Max: 1.3},
			LabPotassium:      {Min: 3.5, Max: 5.0},
			FieldHeartRate:    {Min: 60, Max: 100},
			FieldTemperature:  {Min: 36.1, Max: 37.8},
		},
	}
}

// referenceRange picks the normal range for a lab type, preferring the
// reference bounds carried on the latest lab result when they are sane.
func (c Config) referenceRange(labType string, latest *LabResult) Range {
	if latest != nil && latest.RefMax > latest.RefMin {
		return Range{Min: latest.RefMin, Max: latest.RefMax}
	}
	return c.ReferenceRanges[labType]
}
