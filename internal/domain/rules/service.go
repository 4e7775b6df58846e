package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
	"github.com/renalcare/renalcare/internal/platform/metrics"
)

// BundleSource assembles the full chart bundle a rule is evaluated against.
type BundleSource interface {
	Bundle(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*engine.PatientBundle, error)
}

type Service struct {
	repo    Repository
	eng     *engine.Engine
	bundles BundleSource
	metrics *metrics.Metrics
}

func NewService(repo Repository, eng *engine.Engine, bundles BundleSource, m *metrics.Metrics) *Service {
	return &Service{repo: repo, eng: eng, bundles: bundles, metrics: m}
}

var validOps = map[string]bool{
	engine.OpGT: true, engine.OpLT: true, engine.OpGTE: true, engine.OpLTE: true,
	engine.OpPctDrop: true, engine.OpPctRise: true, engine.OpAbsChange: true,
	engine.OpNoRecentData: true, engine.OpMedInList: true, engine.OpMsgUnacked: true,
}

// validateTree rejects trees that could never be authored by the rule
// builder. Unknown fields are allowed through: they evaluate as degraded
// rather than failing creation, so a rule written against a newer field
// set still round-trips.
func validateTree(n *engine.RuleNode, path string) error {
	if n == nil {
		return fmt.Errorf("node %s: empty", path)
	}
	if n.Combinator != "" {
		if n.Combinator != engine.CombinatorAnd && n.Combinator != engine.CombinatorOr {
			return fmt.Errorf("node %s: unknown combinator %q", path, n.Combinator)
		}
		if len(n.Children) == 0 {
			return fmt.Errorf("node %s: combinator without children", path)
		}
		for i, child := range n.Children {
			if err := validateTree(child, fmt.Sprintf("%s.%d", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	if !validOps[n.Op] {
		return fmt.Errorf("node %s: unknown op %q", path, n.Op)
	}
	switch n.Op {
	case engine.OpMedInList:
		if len(n.List) == 0 {
			return fmt.Errorf("node %s: med_in_list requires a list", path)
		}
	case engine.OpMsgUnacked:
		// no field required
	default:
		if n.Field == "" {
			return fmt.Errorf("node %s: op %q requires a field", path, n.Op)
		}
	}
	if n.LookbackDays < 0 {
		return fmt.Errorf("node %s: negative lookback_days", path)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, r *ClinicalRule) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := validateTree(r.Tree, "0"); err != nil {
		return fmt.Errorf("invalid rule tree: %w", err)
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClinicalRule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *ClinicalRule) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := validateTree(r.Tree, "0"); err != nil {
		return fmt.Errorf("invalid rule tree: %w", err)
	}
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*ClinicalRule, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Evaluate runs a stored rule against the patient's current chart. The
// bundle is assembled once with a fixed as-of clock so the result and its
// trace are reproducible for that instant.
func (s *Service) Evaluate(ctx context.Context, ruleID, patientID uuid.UUID, asOf time.Time) (*EvaluationResult, error) {
	rule, err := s.repo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("load rule: %w", err)
	}

	bundle, err := s.bundles.Bundle(ctx, patientID, asOf)
	if err != nil {
		return nil, fmt.Errorf("assemble chart bundle: %w", err)
	}

	fired, trace := s.eng.Evaluate(rule.Tree, bundle)
	if s.metrics != nil {
		s.metrics.RuleEvaluations.WithLabelValues(evaluationOutcome(fired, trace.Degraded)).Inc()
	}
	return &EvaluationResult{
		RuleID:    ruleID,
		PatientID: patientID,
		AsOf:      asOf,
		Fired:     fired,
		Degraded:  trace.Degraded,
		Trace:     trace,
	}, nil
}

// evaluationOutcome labels an evaluation for the metrics counter.
// Degraded outranks the boolean so partial-data evaluations stay visible.
func evaluationOutcome(fired, degraded bool) string {
	switch {
	case degraded:
		return "degraded"
	case fired:
		return "fired"
	default:
		return "not_fired"
	}
}
