package planner

import (
	"context"
	"testing"
)

func TestEHCReturnsEmptyPlanForTriviallySatisfiedGoal(t *testing.T) {
	objects, predicates, actions, init, _ := cakeDomain()
	p, err := Build(objects, predicates, actions, init, init)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seq, found, err := p.PlanEHC(context.Background())
	if err != nil {
		t.Fatalf("PlanEHC: %v", err)
	}
	if !found || len(seq) != 0 {
		t.Fatalf("expected an empty plan, got found=%v seq=%v", found, seq)
	}
}

func TestEHCRespectsContextCancellation(t *testing.T) {
	objects, predicates, actions, init, goal := cakeDomain()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = p.PlanEHC(ctx)
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

func TestEHCEscapesPlateauToFindImprovement(t *testing.T) {
	// A single intermediate action with no immediate h_FF improvement forces
	// the plateau BFS to look one step further before it finds Bake, which
	// does improve h_FF.
	objects, predicates, actions, init, goal := cakeDomain()
	p, err := Build(objects, predicates, actions, init, goal)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seq, found, err := p.PlanEHC(context.Background())
	if err != nil {
		t.Fatalf("PlanEHC: %v", err)
	}
	if !found {
		t.Fatalf("expected a plan")
	}
	assertValidSequentialPlan(t, p.Catalog, p.Init, p.Goal, seq)
}
