package planner

import (
	"context"
	"testing"
)

func TestBaselineBFSFindsShortestPlan(t *testing.T) {
	objects, predicates, actions, init, goal := cakeDomain()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seq, found, err := p.PlanBFS(context.Background())
	if err != nil {
		t.Fatalf("PlanBFS: %v", err)
	}
	if !found {
		t.Fatalf("expected a plan")
	}
	assertValidSequentialPlan(t, p.Catalog, p.Init, p.Goal, seq)
	if got, want := len(seq), 2; got != want {
		t.Fatalf("BFS plan length = %d, want %d", got, want)
	}
}

func TestBaselineDFSIncludesFirstTransition(t *testing.T) {
	// A baseline search must not drop the first action out of init when
	// reconstructing its path.
	objects, predicates, actions, init, goal := cakeDomain()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seq, found, err := p.PlanDFS(context.Background())
	if err != nil {
		t.Fatalf("PlanDFS: %v", err)
	}
	if !found {
		t.Fatalf("expected a plan")
	}
	if len(seq) == 0 {
		t.Fatalf("expected a non-empty plan")
	}
	if !Applicable(seq[0], p.Init) {
		t.Fatalf("first action %s in the returned plan is not applicable in the initial state", seq[0])
	}
	assertValidSequentialPlan(t, p.Catalog, p.Init, p.Goal, seq)
}

func TestBaselineReturnsNoPlanForUnreachableGoal(t *testing.T) {
	objects, predicates, actions := blocksWorldDomain()
	init, _ := blocksWorldSmallInitGoal()
	goal := []FactLiteral{
		{Pred: "On", Args: []Object{"R", "A"}},
		{Pred: "On", Args: []Object{"A", "R"}},
	}
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, found, err := p.PlanBFS(context.Background())
	if err != nil {
		t.Fatalf("PlanBFS: %v", err)
	}
	if found {
		t.Fatalf("expected no plan for an unreachable goal")
	}
}
