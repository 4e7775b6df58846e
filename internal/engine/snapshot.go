package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// Engine computes clinical decision snapshots. It holds only immutable
// configuration: every Compute call is a pure function of its bundle, so
// concurrent invocations never interfere and identical input always
// produces identical output.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates an engine with the given configuration. The logger
// is used for data-quality warnings only; it never influences results.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() Config { return e.cfg }

// Resolver returns the field resolver for a bundle, covering the closed
// set of known field identifiers. Unknown identifiers report ok=false.
func (e *Engine) Resolver(b *PatientBundle) FieldResolver {
	return func(field string) ([]TimeSeriesPoint, bool) {
		switch field {
		case FieldKidneyFunction:
			return b.Series[LabKidneyFunction], true
		case FieldCreatinine:
			return b.Series[LabCreatinine], true
		case FieldPotassium:
			return b.Series[LabPotassium], true
		case FieldHeartRate:
			return singlePoint(b.HeartRate, b.AsOf), true
		case FieldTemperature:
			return singlePoint(b.Temperature, b.AsOf), true
		case FieldBPSystolic:
			if sys, _, ok := ParseBloodPressure(b.BloodPressure); ok {
				return singlePoint(sys, b.AsOf), true
			}
			return nil, true
		case FieldBPDiastolic:
			if _, dia, ok := ParseBloodPressure(b.BloodPressure); ok {
				return singlePoint(dia, b.AsOf), true
			}
			return nil, true
		default:
			return nil, false
		}
	}
}

// Evaluate runs a rule tree against a bundle using the bundle's resolver.
func (e *Engine) Evaluate(root *RuleNode, b *PatientBundle) (bool, *RuleTrace) {
	return EvaluateRule(root, RuleEnv{
		Resolve:     e.Resolver(b),
		Medications: b.Medications,
		Messages:    b.Messages,
		AsOf:        b.AsOf,
	})
}

// Compute derives the full decision snapshot from one input bundle. It
// reads nothing beyond the bundle and the engine configuration and
// writes nothing: the result is built fresh and returned by value.
func (e *Engine) Compute(b PatientBundle) SnapshotResult {
	asOf := b.AsOf

	// Staging and etiology.
	stage := StageUnknown
	if kfv, ok := e.kidneyFunctionValue(&b); ok {
		stage = StageFromKidneyFunction(kfv)
	}
	etiology := ResolveEtiology(b.HistoryTags, e.cfg.EtiologyTags)

	// Trends for the tracked labs and blood pressure.
	trends := map[string]TrendResult{}
	for _, labType := range TrackedLabs {
		trends[labType] = AnalyzeTrend(b.Series[labType], e.labRange(&b, labType), asOf)
	}
	bp := AnalyzeBloodPressure(b.BloodPressure)
	if bp.Status == TrendNoData && b.BloodPressure != "" {
		e.log.Warn().Str("reading", b.BloodPressure).Msg("unparseable blood pressure, treating as no data")
	}

	// Scheduling.
	interval := RecheckIntervalDays(stage)
	if b.LabIntervalOverride != nil && *b.LabIntervalOverride > 0 {
		interval = *b.LabIntervalOverride
	}
	lastLab := e.lastLabDate(&b)
	pending, overdueDays := LabRecheck(lastLab, interval, asOf)

	// Medication flag and message triage.
	medFlag := FlagRiskMedications(b.Medications, e.cfg.RiskMedications)
	triage := TriageMessages(b.Messages, e.cfg.RiskKeywords, asOf)
	daysSinceContact := DaysSinceLastContact(b.Messages, asOf)

	// Abnormality recency across tracked labs (blood pressure is a
	// vital and does not feed the lab-recency rung).
	recentAbnormal := false
	var abnormalAt *time.Time
	for _, labType := range TrackedLabs {
		tr := trends[labType]
		if tr.Status != TrendAbnormal {
			continue
		}
		at := tr.LatestAt
		if abnormalAt == nil || at.After(*abnormalAt) {
			abnormalAt = &at
		}
		if daysSince(at, asOf) <= 30 {
			recentAbnormal = true
		}
	}

	// Risk tier. The watch rung counts only rechecks overdue against an
	// existing last lab date; a patient with no labs at all shows the
	// pending flag but stays out of the watch tier.
	overdueRechecks := 0
	if pending && lastLab != nil {
		overdueRechecks = 1
	}
	tier := ComputeRiskTier(TierInput{
		UnresolvedAlerts:  b.UnresolvedAlerts,
		RecentAbnormalLab: recentAbnormal,
		OverdueRechecks:   overdueRechecks,
	})

	// Action state.
	abnormalTrend := bp.Status == TrendAbnormal
	for _, labType := range TrackedLabs {
		if trends[labType].Status == TrendAbnormal {
			abnormalTrend = true
		}
	}
	action := ComputeActionState(ActionInput{
		UnreviewedHighRiskMessage: triage.Flagged,
		AbnormalTrend:             abnormalTrend,
		Tier:                      tier.Level,
		LabsPending:               pending,
	})

	// Medico-legal timestamps.
	daysSinceReview := -1
	if b.LastReviewAt != nil {
		daysSinceReview = daysSince(*b.LastReviewAt, asOf)
	}
	daysSinceAbnormal := -1
	if abnormalAt != nil {
		daysSinceAbnormal = daysSince(*abnormalAt, asOf)
	}

	return SnapshotResult{
		Stage:          stage,
		Etiology:       etiology,
		KidneyFunction: trends[LabKidneyFunction],
		Creatinine:     trends[LabCreatinine],
		Potassium:      trends[LabPotassium],
		BloodPressure:  bp,
		Medication:     medFlag,

		LabsPending:         pending,
		LabOverdueDays:      overdueDays,
		RecheckIntervalDays: interval,

		Triage:           triage,
		DaysSinceContact: daysSinceContact,

		Tier:   tier,
		Action: action,

		LastReviewAt:       b.LastReviewAt,
		DaysSinceReview:    daysSinceReview,
		AbnormalDetectedAt: abnormalAt,
		DaysSinceAbnormal:  daysSinceAbnormal,
	}
}

// kidneyFunctionValue picks the most recent kidney-function value from
// the series, falling back to the latest-result map.
func (e *Engine) kidneyFunctionValue(b *PatientBundle) (float64, bool) {
	if p, ok := latestPoint(b.Series[LabKidneyFunction]); ok {
		return p.Value, true
	}
	if lab, ok := b.LatestLabs[LabKidneyFunction]; ok {
		return lab.Value, true
	}
	return 0, false
}

// labRange picks the normal range for a lab type.
func (e *Engine) labRange(b *PatientBundle, labType string) Range {
	if lab, ok := b.LatestLabs[labType]; ok {
		return e.cfg.referenceRange(labType, &lab)
	}
	return e.cfg.referenceRange(labType, nil)
}

// lastLabDate is the most recent resulted lab date across the
// latest-result map and the tracked series.
func (e *Engine) lastLabDate(b *PatientBundle) *time.Time {
	var last *time.Time
	for _, lab := range b.LatestLabs {
		t := lab.TestDate
		if last == nil || t.After(*last) {
			last = &t
		}
	}
	for _, labType := range TrackedLabs {
		if p, ok := latestPoint(b.Series[labType]); ok {
			t := p.Date
			if last == nil || t.After(*last) {
				last = &t
			}
		}
	}
	return last
}

func singlePoint(v float64, at time.Time) []TimeSeriesPoint {
	if v == 0 {
		return nil
	}
	return []TimeSeriesPoint{{Date: at, Value: v}}
}
