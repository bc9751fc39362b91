package planner

import "strings"

// SequentialPlan is an ordered list of ground Actions, produced by EHC and
// by the uninformed baseline searches.
type SequentialPlan []*Action

// String implements the display contract: one line per action,
// "Name(arg1, arg2, …)".
func (p SequentialPlan) String() string {
	lines := make([]string, len(p))
	for i, a := range p {
		lines[i] = a.String()
	}
	return strings.Join(lines, "\n")
}

// LayeredPlan is an ordered sequence of sets of ground Actions, produced by
// Graphplan. Every set is pairwise non-mutex and jointly applicable; any
// topological linearization of a layer reaches the next layer's fact set.
// NoOps are excluded.
type LayeredPlan [][]*Action

// String implements the display contract: one line per layer,
// comma-separated "Name(arg1, arg2, …)".
func (p LayeredPlan) String() string {
	lines := make([]string, len(p))
	for i, layer := range p {
		names := make([]string, len(layer))
		for j, a := range layer {
			names[j] = a.String()
		}
		lines[i] = strings.Join(names, ", ")
	}
	return strings.Join(lines, "\n")
}

// Flatten concatenates every layer's actions in layer order into a single
// sequential plan, useful for feeding a LayeredPlan's actions through a
// single-order validator.
func (p LayeredPlan) Flatten() SequentialPlan {
	var out SequentialPlan
	for _, layer := range p {
		out = append(out, layer...)
	}
	return out
}
