package planner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitrdm/stripsplan/internal/parallel"
)

func TestGraphplanLevelsOffOnUnreachableGoal(t *testing.T) {
	// A predicate no action ever adds is unreachable at any level; Graphplan
	// must level off and report no plan rather than loop forever.
	g := Grounder{}
	cat, err := g.Ground([]PredicateSchema{
		{Name: "Have", Params: []string{"?x"}},
		{Name: "Frosted", Params: []string{"?x"}},
	}, nil, []Object{"cake"})
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}
	have, _ := cat.lookupFact("Have", []Object{"cake"})
	frosted, _ := cat.lookupFact("Frosted", []Object{"cake"})

	init := NewFactSet(cat.NumFacts(), have.ID())
	goal := NewFactSet(cat.NumFacts(), frosted.ID())

	gp := NewGraphplan(cat)
	plan, found, err := gp.Solve(context.Background(), init, goal)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if found {
		t.Fatalf("expected no plan, got %v", plan)
	}
}

func TestGraphplanParallelExpansionMatchesSequential(t *testing.T) {
	objects, predicates, actions := blocksWorldDomain()
	init, goal := blocksWorldSmallInitGoal()
	ctx := context.Background()

	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seqPlan, found, err := p.PlanGraphplan(ctx)
	if err != nil {
		t.Fatalf("PlanGraphplan (sequential): %v", err)
	}
	if !found {
		t.Fatalf("sequential Graphplan: expected a plan")
	}

	pool := parallel.NewWorkerPool(ctx, 4)
	defer pool.Close()
	pp, err := Build(objects, predicates, actions, init, goal, WithParallelPool(pool))
	if err != nil {
		t.Fatalf("Build with pool: %v", err)
	}
	parPlan, found, err := pp.PlanGraphplan(ctx)
	if err != nil {
		t.Fatalf("PlanGraphplan (parallel): %v", err)
	}
	if !found {
		t.Fatalf("parallel Graphplan: expected a plan")
	}
	assertValidLayeredPlan(t, pp.Init, pp.Goal, parPlan)

	// Parallel applicability scanning merges results back in catalog order,
	// so the two runs must extract the identical layered plan.
	render := func(plan LayeredPlan) [][]string {
		out := make([][]string, len(plan))
		for i, layer := range plan {
			out[i] = make([]string, len(layer))
			for j, a := range layer {
				out[i][j] = a.String()
			}
		}
		return out
	}
	if diff := cmp.Diff(render(seqPlan), render(parPlan)); diff != "" {
		t.Fatalf("plans differ (-sequential +parallel):\n%s", diff)
	}
}

func TestGraphplanRespectsContextCancellation(t *testing.T) {
	objects, predicates, actions := blocksWorldDomain()
	init, goal := blocksWorldSmallInitGoal()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = p.PlanGraphplan(ctx)
	if err == nil {
		t.Fatalf("expected a Timeout error for an already-cancelled context")
	}
	pe, ok := err.(*PlanError)
	if !ok {
		t.Fatalf("expected *PlanError, got %T", err)
	}
	if pe.Kind != Timeout {
		t.Fatalf("Kind = %v, want Timeout", pe.Kind)
	}
}

func TestGraphplanExcludesNoOpsFromLayers(t *testing.T) {
	objects, predicates, actions, init, goal := cakeDomain()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	layered, found, err := p.PlanGraphplan(context.Background())
	if err != nil {
		t.Fatalf("PlanGraphplan: %v", err)
	}
	if !found {
		t.Fatalf("expected a plan")
	}
	for _, layer := range layered {
		for _, a := range layer {
			if a == nil {
				t.Fatalf("found a NoOp (nil action) in a returned layer")
			}
		}
	}
}
