package engine

import "testing"

func TestComputeActionState_UnreviewedMessageFirst(t *testing.T) {
	got := ComputeActionState(ActionInput{
		UnreviewedHighRiskMessage: true,
		AbnormalTrend:             true,
		Tier:                      TierHighRisk,
	})
	if got.Level != ActionImmediate {
		t.Fatalf("expected immediate, got %s", got.Level)
	}
	if got.Reason != "unreviewed high-risk message" {
		t.Errorf("message rung must win, got %q", got.Reason)
	}
	if got.NextStep != "review patient message" {
		t.Errorf("unexpected next step %q", got.NextStep)
	}
}

func TestComputeActionState_AbnormalTrend(t *testing.T) {
	got := ComputeActionState(ActionInput{AbnormalTrend: true, Tier: TierHighRisk})
	if got.Reason != "abnormal trend detected" {
		t.Errorf("trend rung must precede tier rung, got %q", got.Reason)
	}
	if got.NextStep != "review abnormal labs" {
		t.Errorf("unexpected next step %q", got.NextStep)
	}
}

func TestComputeActionState_HighRiskTierAlone(t *testing.T) {
	// An unresolved alert escalates even without an abnormal trend.
	got := ComputeActionState(ActionInput{Tier: TierHighRisk})
	if got.Level != ActionImmediate {
		t.Fatalf("expected immediate, got %s", got.Level)
	}
	if got.Reason != "high-risk status" {
		t.Errorf("unexpected reason %q", got.Reason)
	}
	if got.NextStep != "review active alerts" {
		t.Errorf("unexpected next step %q", got.NextStep)
	}
}

func TestComputeActionState_WatchWithPendingLabs(t *testing.T) {
	got := ComputeActionState(ActionInput{Tier: TierWatch, LabsPending: true})
	if got.Level != ActionReview {
		t.Fatalf("expected review, got %s", got.Level)
	}
	if got.NextStep != "order repeat labs" {
		t.Errorf("unexpected next step %q", got.NextStep)
	}
}

func TestComputeActionState_WatchWithoutPendingLabs(t *testing.T) {
	got := ComputeActionState(ActionInput{Tier: TierWatch})
	if got.NextStep != "schedule follow-up" {
		t.Errorf("unexpected next step %q", got.NextStep)
	}
}

func TestComputeActionState_Default(t *testing.T) {
	got := ComputeActionState(ActionInput{Tier: TierStable})
	if got.Level != ActionNone {
		t.Fatalf("expected no-action, got %s", got.Level)
	}
	if got.NextStep != "" {
		t.Errorf("expected empty next step, got %q", got.NextStep)
	}
}

func TestComputeActionState_SafetyInvariant(t *testing.T) {
	// NoAction implies no abnormal trend, no unreviewed high-risk
	// message and a tier below high-risk, for every input combination.
	for _, msg := range []bool{false, true} {
		for _, trend := range []bool{false, true} {
			for _, tier := range []TierLevel{TierStable, TierWatch, TierHighRisk} {
				for _, pending := range []bool{false, true} {
					in := ActionInput{
						UnreviewedHighRiskMessage: msg,
						AbnormalTrend:             trend,
						Tier:                      tier,
						LabsPending:               pending,
					}
					got := ComputeActionState(in)
					if got.Level == ActionNone && (msg || trend || tier == TierHighRisk) {
						t.Fatalf("safety invariant violated for %+v", in)
					}
				}
			}
		}
	}
}
