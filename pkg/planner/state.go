package planner

// State is an immutable set of facts denoting which ground facts currently
// hold. Truth is closed-world: a fact is false iff absent from the set.
type State = FactSet

// Applicable reports whether action a's preconditions are satisfied in s.
func Applicable(a *Action, s State) bool {
	return a.Pre.IsSubsetOf(s)
}

// Apply computes the successor of s under action a: (s ∪ adds) \ deletes.
// Adds are applied before deletes so that, were an action's add/delete sets
// ever to overlap, deletes would win. OverlappingAddDelete is rejected at
// ground time, so in practice the two sets never overlap.
func Apply(a *Action, s State) State {
	return s.Union(a.Add).Subtract(a.Del)
}

// Satisfies reports whether every fact in goal holds in s.
func Satisfies(s State, goal FactSet) bool {
	return goal.IsSubsetOf(s)
}
