package engine

import "testing"

func TestComputeRiskTier_AlertOutranksEverything(t *testing.T) {
	got := ComputeRiskTier(TierInput{UnresolvedAlerts: 1})
	if got.Level != TierHighRisk {
		t.Fatalf("expected high-risk, got %s", got.Level)
	}
	if got.Reason != "active alert detected" {
		t.Errorf("expected reason 'active alert detected', got %q", got.Reason)
	}
}

func TestComputeRiskTier_AlertPrecedesAbnormalLab(t *testing.T) {
	got := ComputeRiskTier(TierInput{UnresolvedAlerts: 2, RecentAbnormalLab: true})
	if got.Reason != "active alert detected" {
		t.Errorf("alert rung must win, got %q", got.Reason)
	}
}

func TestComputeRiskTier_RecentAbnormalLab(t *testing.T) {
	got := ComputeRiskTier(TierInput{RecentAbnormalLab: true})
	if got.Level != TierHighRisk {
		t.Fatalf("expected high-risk, got %s", got.Level)
	}
	if got.Reason != "abnormal lab detected" {
		t.Errorf("expected reason 'abnormal lab detected', got %q", got.Reason)
	}
}

func TestComputeRiskTier_PendingLabs(t *testing.T) {
	got := ComputeRiskTier(TierInput{OverdueRechecks: 1})
	if got.Level != TierWatch {
		t.Fatalf("expected watch, got %s", got.Level)
	}
	if got.Reason != "pending labs" {
		t.Errorf("expected reason 'pending labs', got %q", got.Reason)
	}
}

func TestComputeRiskTier_Stable(t *testing.T) {
	got := ComputeRiskTier(TierInput{})
	if got.Level != TierStable {
		t.Fatalf("expected stable, got %s", got.Level)
	}
	if got.Reason != "no abnormal labs (30 days)" {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}
