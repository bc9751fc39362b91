// Package planner implements the core of a classical STRIPS planner: a
// grounding layer, a Graphplan engine with mutex analysis, a relaxed
// planning graph used as an admissible-style heuristic, and an Enforced
// Hill Climbing search guided by that heuristic.
//
// The package is a library, not a driver: it has no knowledge of PDDL or
// any other problem-description format, no command-line surface, and no
// diagnostic printing beyond an optional, nil-safe *log.Logger. Callers
// build a Problem by hand (or from whatever parser they own) and ask for
// a plan.
//
//	problem, err := planner.Build(objects, predicates, actions, init, goal)
//	if err != nil {
//		// validation error: UnknownObject, UnboundParameter, ...
//	}
//	plan, found, err := problem.PlanEHC(ctx)
//
// All planning entry points are pure with respect to the Problem they are
// called on and safe to call concurrently from multiple goroutines, since
// the ground catalog is read-only after Build and every search keeps its
// own local state.
package planner
