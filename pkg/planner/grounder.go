package planner

import (
	"context"

	"github.com/gitrdm/stripsplan/internal/parallel"
)

// Grounder expands predicate and action schemas over a finite object set
// into the ground Fact/Action universe. The zero value is the default,
// permutation-without-repetition policy.
type Grounder struct {
	// AllowRepeatedArguments switches the arrangement policy from
	// k-permutations-without-repetition to k-tuples-with-repetition, for
	// domains with legitimately reflexive ground facts.
	AllowRepeatedArguments bool
}

// arrangements returns every ordered arrangement of length k drawn from
// objects, honoring g.AllowRepeatedArguments.
func (g Grounder) arrangements(objects []Object, k int) [][]Object {
	if k == 0 {
		return [][]Object{{}}
	}
	var out [][]Object
	used := make([]bool, len(objects))
	var rec func(prefix []Object)
	rec = func(prefix []Object) {
		if len(prefix) == k {
			out = append(out, append([]Object(nil), prefix...))
			return
		}
		for i, o := range objects {
			if !g.AllowRepeatedArguments && used[i] {
				continue
			}
			used[i] = true
			rec(append(prefix, o))
			used[i] = false
		}
	}
	rec(nil)
	return out
}

// Ground expands predicates and actions over objects into a Catalog,
// sequentially and deterministically.
func (g Grounder) Ground(predicates []PredicateSchema, actions []ActionSchema, objects []Object) (*Catalog, error) {
	if err := validateActionSchemas(actions); err != nil {
		return nil, err
	}
	cat := newCatalog()
	for _, pred := range predicates {
		g.groundPredicate(cat, pred, objects)
	}
	for _, act := range actions {
		if err := g.groundAction(cat, act, objects); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// GroundParallel is equivalent to Ground but fans per-schema enumeration out
// across pool, merging results back into the same deterministic catalog
// order as the sequential path (one schema's facts/actions interned before
// the next, in input order). Useful for large object sets where permutation
// enumeration dominates grounding time.
func (g Grounder) GroundParallel(ctx context.Context, predicates []PredicateSchema, actions []ActionSchema, objects []Object, pool *parallel.WorkerPool) (*Catalog, error) {
	if err := validateActionSchemas(actions); err != nil {
		return nil, err
	}

	predArrangements := make([][][]Object, len(predicates))

	// Compute arrangements in parallel; interning happens afterward,
	// sequentially, to keep catalog IDs deterministic regardless of
	// goroutine scheduling.
	done := make(chan struct{}, len(predicates)+len(actions))
	for i, pred := range predicates {
		i, pred := i, pred
		k := len(pred.Params)
		ok := pool.Submit(func() {
			predArrangements[i] = g.arrangements(objects, k)
			done <- struct{}{}
		})
		if !ok {
			return nil, wrapError(Timeout, pool.Err(), "GroundParallel: cancelled while grounding predicate %s", pred.Name)
		}
	}
	actArrangements := make([][][]Object, len(actions))
	for i, act := range actions {
		i, act := i, act
		k := len(act.Params)
		ok := pool.Submit(func() {
			actArrangements[i] = g.arrangements(objects, k)
			done <- struct{}{}
		})
		if !ok {
			return nil, wrapError(Timeout, pool.Err(), "GroundParallel: cancelled while grounding action %s", act.Name)
		}
	}
	for i := 0; i < len(predicates)+len(actions); i++ {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, wrapError(Timeout, ctx.Err(), "GroundParallel: context cancelled")
		}
	}

	cat := newCatalog()
	for i, pred := range predicates {
		for _, args := range predArrangements[i] {
			cat.internFact(pred.Name, args)
		}
	}
	for i, act := range actions {
		for _, args := range actArrangements[i] {
			if err := g.internGroundAction(cat, act, args); err != nil {
				return nil, err
			}
		}
	}
	return cat, nil
}

func (g Grounder) groundPredicate(cat *Catalog, pred PredicateSchema, objects []Object) {
	for _, args := range g.arrangements(objects, len(pred.Params)) {
		cat.internFact(pred.Name, args)
	}
}

func (g Grounder) groundAction(cat *Catalog, act ActionSchema, objects []Object) error {
	for _, args := range g.arrangements(objects, len(act.Params)) {
		if err := g.internGroundAction(cat, act, args); err != nil {
			return err
		}
	}
	return nil
}

func (g Grounder) internGroundAction(cat *Catalog, act ActionSchema, args []Object) error {
	bindings := make(map[string]Object, len(act.Params))
	for i, p := range act.Params {
		bindings[p] = args[i]
	}

	pre, err := g.groundTemplates(cat, act.Pre, bindings)
	if err != nil {
		return err
	}
	add, err := g.groundTemplates(cat, act.Add, bindings)
	if err != nil {
		return err
	}
	del, err := g.groundTemplates(cat, act.Del, bindings)
	if err != nil {
		return err
	}

	universe := cat.NumFacts()
	preSet := EmptyFactSet(universe)
	for _, f := range pre {
		preSet = preSet.With(f.ID())
	}
	addSet := EmptyFactSet(universe)
	for _, f := range add {
		addSet = addSet.With(f.ID())
	}
	delSet := EmptyFactSet(universe)
	for _, f := range del {
		delSet = delSet.With(f.ID())
	}
	if addSet.Intersects(delSet) {
		return newError(OverlappingAddDelete, "action %s has a fact in both adds and deletes", formatNameArgs(act.Name, args))
	}

	cat.internAction(act.Name, args, preSet, addSet, delSet)
	return nil
}

func (g Grounder) groundTemplates(cat *Catalog, templates []FactTemplate, bindings map[string]Object) ([]*Fact, error) {
	facts := make([]*Fact, 0, len(templates))
	for _, tpl := range templates {
		args := make([]Object, len(tpl.Args))
		for i, param := range tpl.Args {
			obj, ok := bindings[param]
			if !ok {
				return nil, newError(UnboundParameter, "template %s references undeclared parameter %s", tpl.Pred, param)
			}
			args[i] = obj
		}
		facts = append(facts, cat.internFact(tpl.Pred, args))
	}
	return facts, nil
}

func validateActionSchemas(actions []ActionSchema) error {
	for _, act := range actions {
		declared := make(map[string]bool, len(act.Params))
		for _, p := range act.Params {
			declared[p] = true
		}
		for _, group := range [][]FactTemplate{act.Pre, act.Add, act.Del} {
			for _, tpl := range group {
				for _, param := range tpl.Args {
					if !declared[param] {
						return newError(UnboundParameter, "action %s: template %s references undeclared parameter %s", act.Name, tpl.Pred, param)
					}
				}
			}
		}
	}
	return nil
}
