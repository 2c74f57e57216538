package schema

import "fmt"

// Policy selects what happens to tables whose references never resolve.
type Policy string

const (
	// PolicyLegacy relaxes for MaxPasses passes and drops whatever is left.
	PolicyLegacy Policy = "legacy"
	// PolicyStrict relaxes until no progress and fails on anything left.
	PolicyStrict Policy = "strict"
)

// MaxPasses bounds the legacy relaxation. Dumps produced by earlier versions
// depend on it: chains deeper than this are left out.
const MaxPasses = 5

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyLegacy:
		return PolicyLegacy, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown dependency policy %q (want %q or %q)", s, PolicyLegacy, PolicyStrict)
	}
}

// Resolution is the emission order plus the tables that did not make it.
type Resolution struct {
	Order      []string
	Unresolved []Unresolved
}

// ---------------------------------------------------------------------
// Sorting Algorithm (Bounded Relaxation)
// ---------------------------------------------------------------------

// Resolve orders tables so that each one follows the tables it references.
// Tables without references come first, in input order. Then the remaining
// tables are scanned in input order, pass after pass, and appended once all
// their references are in the output. Under PolicyLegacy tables still pending
// after MaxPasses passes are dropped and reported in Unresolved; under
// PolicyStrict they make Resolve return an *UnresolvedError.
func Resolve(tables []string, graph Graph, policy Policy) (Resolution, error) {
	resolved := make(map[string]bool, len(tables))
	known := make(map[string]bool, len(tables))
	var order []string

	// Pass 0: tables with no dependencies, in original order
	for _, t := range tables {
		known[t] = true
		if resolved[t] {
			continue
		}
		if len(references(graph, t)) == 0 {
			order = append(order, t)
			resolved[t] = true
		}
	}

	for pass := 0; policy == PolicyStrict || pass < MaxPasses; pass++ {
		added := false
		for _, t := range tables {
			if resolved[t] {
				continue
			}
			if allIn(references(graph, t), resolved) {
				order = append(order, t)
				resolved[t] = true
				added = true
			}
		}
		if !added {
			break
		}
	}

	res := Resolution{Order: order}
	seen := make(map[string]bool)
	for _, t := range tables {
		if resolved[t] || seen[t] {
			continue
		}
		seen[t] = true

		var missing []string
		for _, r := range references(graph, t) {
			if !resolved[r] {
				missing = append(missing, r)
			}
		}
		res.Unresolved = append(res.Unresolved, Unresolved{
			Table:   t,
			Missing: missing,
			Reason:  classify(t, graph, known, resolved),
		})
	}

	if policy == PolicyStrict && len(res.Unresolved) > 0 {
		return res, &UnresolvedError{Tables: res.Unresolved}
	}
	return res, nil
}

// references returns t's references without a self edge.
func references(graph Graph, t string) []string {
	refs := graph[t]
	for i, r := range refs {
		if r == t {
			out := make([]string, 0, len(refs)-1)
			out = append(out, refs[:i]...)
			for _, r2 := range refs[i+1:] {
				if r2 != t {
					out = append(out, r2)
				}
			}
			return out
		}
	}
	return refs
}

func allIn(names []string, set map[string]bool) bool {
	for _, n := range names {
		if !set[n] {
			return false
		}
	}
	return true
}

// classify walks the unresolved part of the graph reachable from t. A
// reference outside the input wins over a cycle, a cycle wins over depth.
func classify(t string, graph Graph, known, resolved map[string]bool) Reason {
	visiting := make(map[string]bool)
	done := make(map[string]bool)
	var hasMissing, hasCycle bool

	var walk func(n string)
	walk = func(n string) {
		visiting[n] = true
		for _, r := range references(graph, n) {
			switch {
			case !known[r]:
				hasMissing = true
			case resolved[r]:
			case visiting[r]:
				hasCycle = true
			case !done[r]:
				walk(r)
			}
		}
		visiting[n] = false
		done[n] = true
	}
	walk(t)

	switch {
	case hasMissing:
		return ReasonMissing
	case hasCycle:
		return ReasonCycle
	default:
		return ReasonDepth
	}
}
