package engine

import (
	"fmt"
	"strings"
	"time"
)

// Comparison operators accepted in rule leaves.
const (
	OpGT           = "gt"
	OpLT           = "lt"
	OpGTE          = "gte"
	OpLTE          = "lte"
	OpPctDrop      = "pct_drop"
	OpPctRise      = "pct_rise"
	OpAbsChange    = "abs_change"
	OpNoRecentData = "no_recent_data"
	OpMedInList    = "med_in_list"
	OpMsgUnacked   = "message_unacknowledged"
)

// Combinator kinds.
const (
	CombinatorAnd = "and"
	CombinatorOr  = "or"
)

// defaultLookbackDays applies when a comparison leaf omits lookback_days.
const defaultLookbackDays = 90

// RuleNode is one node of an authored rule tree: either a comparison
// leaf (Op set) or a combinator (Combinator set with ordered Children).
// The structure is the interchange format produced by the rule-authoring
// tool and is consumed verbatim; nesting depth is unbounded even though
// current authoring emits a single flat level.
type RuleNode struct {
	Combinator string      `json:"combinator,omitempty"`
	Children   []*RuleNode `json:"children,omitempty"`

	Op           string   `json:"op,omitempty"`
	Field        string   `json:"field,omitempty"`
	Value        float64  `json:"value,omitempty"`
	List         []string `json:"list,omitempty"`
	LookbackDays int      `json:"lookback_days,omitempty"`
}

// IsLeaf reports whether the node is a comparison leaf.
func (n *RuleNode) IsLeaf() bool {
	return n != nil && n.Combinator == ""
}

// FieldResolver resolves a field identifier to its time series. The
// second return is false when the identifier is outside the closed set
// of known fields.
type FieldResolver func(field string) ([]TimeSeriesPoint, bool)

// RuleEnv is the resolved data a rule tree is evaluated against.
type RuleEnv struct {
	Resolve     FieldResolver
	Medications []MedicationRecord
	Messages    []PatientMessage
	AsOf        time.Time
}

// TraceEntry records the outcome of one evaluated node. Entries appear
// in evaluation order; children skipped by short-circuiting leave no
// entry. Degraded marks leaves with an unknown operator or field.
type TraceEntry struct {
	Path     string `json:"path"`
	Op       string `json:"op,omitempty"`
	Field    string `json:"field,omitempty"`
	Fired    bool   `json:"fired"`
	Degraded bool   `json:"degraded,omitempty"`
}

// RuleTrace is the full evaluation trace of one rule tree.
type RuleTrace struct {
	Entries  []TraceEntry `json:"entries"`
	Degraded bool         `json:"degraded,omitempty"`
}

// EvaluateRule interprets a rule tree against the environment. Invalid
// nodes never abort evaluation: they evaluate to false and are flagged
// degraded in the trace.
func EvaluateRule(root *RuleNode, env RuleEnv) (bool, *RuleTrace) {
	trace := &RuleTrace{}
	fired := evalNode(root, env, "0", trace)
	return fired, trace
}

func evalNode(n *RuleNode, env RuleEnv, path string, trace *RuleTrace) bool {
	if n == nil {
		trace.record(TraceEntry{Path: path, Degraded: true})
		return false
	}

	switch strings.ToLower(n.Combinator) {
	case "":
		return evalLeaf(n, env, path, trace)
	case CombinatorAnd:
		result := true
		for i, child := range n.Children {
			if !evalNode(child, env, childPath(path, i), trace) {
				result = false
				break
			}
		}
		trace.record(TraceEntry{Path: path, Op: CombinatorAnd, Fired: result && len(n.Children) > 0})
		return result && len(n.Children) > 0
	case CombinatorOr:
		result := false
		for i, child := range n.Children {
			if evalNode(child, env, childPath(path, i), trace) {
				result = true
				break
			}
		}
		trace.record(TraceEntry{Path: path, Op: CombinatorOr, Fired: result})
		return result
	default:
		trace.record(TraceEntry{Path: path, Op: n.Combinator, Degraded: true})
		return false
	}
}

func evalLeaf(n *RuleNode, env RuleEnv, path string, trace *RuleTrace) bool {
	entry := TraceEntry{Path: path, Op: n.Op, Field: n.Field}

	switch strings.ToLower(n.Op) {
	case OpGT, OpLT, OpGTE, OpLTE:
		series, known := resolve(env, n.Field)
		if !known {
			entry.Degraded = true
			break
		}
		latest, ok := latestPoint(series)
		if !ok {
			break
		}
		switch strings.ToLower(n.Op) {
		case OpGT:
			entry.Fired = latest.Value > n.Value
		case OpLT:
			entry.Fired = latest.Value < n.Value
		case OpGTE:
			entry.Fired = latest.Value >= n.Value
		case OpLTE:
			entry.Fired = latest.Value <= n.Value
		}

	case OpPctDrop, OpPctRise, OpAbsChange:
		series, known := resolve(env, n.Field)
		if !known {
			entry.Degraded = true
			break
		}
		window := windowPoints(series, lookback(n), env.AsOf)
		if len(window) < 2 {
			break
		}
		earliest, latest := window[0], window[len(window)-1]
		switch strings.ToLower(n.Op) {
		case OpAbsChange:
			diff := latest.Value - earliest.Value
			if diff < 0 {
				diff = -diff
			}
			entry.Fired = diff >= n.Value
		default:
			if earliest.Value == 0 {
				break
			}
			change := (latest.Value - earliest.Value) / earliest.Value * 100
			if strings.ToLower(n.Op) == OpPctDrop {
				entry.Fired = -change >= n.Value
			} else {
				entry.Fired = change >= n.Value
			}
		}

	case OpNoRecentData:
		series, known := resolve(env, n.Field)
		if !known {
			// Outside the known field set: still "no recent data", but
			// flagged so callers can surface the authoring error.
			entry.Degraded = true
			entry.Fired = true
			break
		}
		entry.Fired = len(windowPoints(series, lookback(n), env.AsOf)) == 0

	case OpMedInList:
		for _, med := range env.Medications {
			if !med.Active {
				continue
			}
			name := strings.ToLower(med.Name)
			for _, want := range n.List {
				if want != "" && strings.Contains(name, strings.ToLower(want)) {
					entry.Fired = true
					break
				}
			}
			if entry.Fired {
				break
			}
		}

	case OpMsgUnacked:
		for _, msg := range env.Messages {
			if !msg.Read {
				entry.Fired = true
				break
			}
		}

	default:
		entry.Degraded = true
	}

	trace.record(entry)
	return entry.Fired
}

func (t *RuleTrace) record(e TraceEntry) {
	t.Entries = append(t.Entries, e)
	if e.Degraded {
		t.Degraded = true
	}
}

func childPath(parent string, i int) string {
	return fmt.Sprintf("%s.%d", parent, i)
}

func lookback(n *RuleNode) int {
	if n.LookbackDays > 0 {
		return n.LookbackDays
	}
	return defaultLookbackDays
}

func resolve(env RuleEnv, field string) ([]TimeSeriesPoint, bool) {
	if env.Resolve == nil {
		return nil, false
	}
	return env.Resolve(field)
}
