package planner

// PredicateSchema declares a predicate's name and its ordered formal
// parameter slots (conventionally prefixed "?", e.g. "?obj"). Grounding
// enumerates every k-permutation of objects to produce one Fact per
// arrangement, where k = len(Params).
type PredicateSchema struct {
	Name   string
	Params []string
}

// FactTemplate is a predicate reference inside an action schema's
// preconditions/adds/deletes. Args must refer only to the owning action
// schema's own formal parameters.
type FactTemplate struct {
	Pred string
	Args []string
}

// ActionSchema declares an action template: a name, its ordered formal
// parameters, and the three predicate-template sets that make up its
// preconditions, add-effects and delete-effects.
type ActionSchema struct {
	Name    string
	Params  []string
	Pre     []FactTemplate
	Add     []FactTemplate
	Del     []FactTemplate
}

// FactLiteral is a ground fact supplied directly by the caller (an init or
// goal literal), as opposed to a FactTemplate bound at grounding time.
type FactLiteral struct {
	Pred string
	Args []Object
}
