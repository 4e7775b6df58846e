package engine

// TierInput carries the signals the risk-tier chain evaluates.
type TierInput struct {
	// UnresolvedAlerts is the count of open alerts for the patient.
	UnresolvedAlerts int
	// RecentAbnormalLab is true when any tracked lab trend is abnormal
	// with its latest point within the last 30 days.
	RecentAbnormalLab bool
	// OverdueRechecks counts lab rechecks that are past due relative to
	// an existing last lab date.
	OverdueRechecks int
}

// tierRule is one rung of the ordered risk-tier chain.
type tierRule struct {
	match  func(TierInput) bool
	level  TierLevel
	reason string
}

// tierRules is evaluated strictly in order; the first match wins. The
// ordering is data so each rung can be audited and tested on its own.
var tierRules = []tierRule{
	{
		match:  func(in TierInput) bool { return in.UnresolvedAlerts >= 1 },
		level:  TierHighRisk,
		reason: "active alert detected",
	},
	{
		match:  func(in TierInput) bool { return in.RecentAbnormalLab },
		level:  TierHighRisk,
		reason: "abnormal lab detected",
	},
	{
		match:  func(in TierInput) bool { return in.OverdueRechecks >= 1 },
		level:  TierWatch,
		reason: "pending labs",
	},
}

// ComputeRiskTier walks the ordered chain and returns the first matching
// tier, defaulting to stable.
func ComputeRiskTier(in TierInput) RiskTier {
	for _, rule := range tierRules {
		if rule.match(in) {
			return RiskTier{Level: rule.level, Reason: rule.reason}
		}
	}
	return RiskTier{Level: TierStable, Reason: "no abnormal labs (30 days)"}
}
