package engine

// ActionInput carries the signals the action-state chain evaluates.
type ActionInput struct {
	// UnreviewedHighRiskMessage is true when message triage flagged an
	// unread urgent or high-risk-keyword message.
	UnreviewedHighRiskMessage bool
	// AbnormalTrend is true when any of the tracked trends (kidney
	// function, creatinine, potassium, blood pressure) is abnormal.
	AbnormalTrend bool
	// Tier is the already-computed risk tier level.
	Tier TierLevel
	// LabsPending reflects the recheck-scheduling flag and selects the
	// suggested next step on the review rung.
	LabsPending bool
}

// actionRule is one rung of the ordered action-state chain. nextStep is
// a function because the review rung picks its suggestion from the input.
type actionRule struct {
	match    func(ActionInput) bool
	level    ActionLevel
	reason   string
	nextStep func(ActionInput) string
}

func staticStep(s string) func(ActionInput) string {
	return func(ActionInput) string { return s }
}

// actionRules is the safety-critical priority chain, evaluated strictly
// in order with the first match winning. NoAction is only reachable when
// no rung above matched, which is exactly the safety contract: no
// abnormal trend, no unreviewed high-risk message, tier not high-risk.
var actionRules = []actionRule{
	{
		match:    func(in ActionInput) bool { return in.UnreviewedHighRiskMessage },
		level:    ActionImmediate,
		reason:   "unreviewed high-risk message",
		nextStep: staticStep("review patient message"),
	},
	{
		match:    func(in ActionInput) bool { return in.AbnormalTrend },
		level:    ActionImmediate,
		reason:   "abnormal trend detected",
		nextStep: staticStep("review abnormal labs"),
	},
	{
		match:    func(in ActionInput) bool { return in.Tier == TierHighRisk },
		level:    ActionImmediate,
		reason:   "high-risk status",
		nextStep: staticStep("review active alerts"),
	},
	{
		match:  func(in ActionInput) bool { return in.Tier == TierWatch },
		level:  ActionReview,
		reason: "watch status",
		nextStep: func(in ActionInput) string {
			if in.LabsPending {
				return "order repeat labs"
			}
			return "schedule follow-up"
		},
	},
}

// ComputeActionState walks the ordered chain and returns the first
// matching state, defaulting to no action with an empty next step.
func ComputeActionState(in ActionInput) ActionState {
	for _, rule := range actionRules {
		if rule.match(in) {
			return ActionState{Level: rule.level, Reason: rule.reason, NextStep: rule.nextStep(in)}
		}
	}
	return ActionState{Level: ActionNone}
}
