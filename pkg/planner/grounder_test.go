package planner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitrdm/stripsplan/internal/parallel"
)

func TestGroundDeterministicFactCount(t *testing.T) {
	objects := []Object{"a", "b", "c"}
	predicates := []PredicateSchema{
		{Name: "On", Params: []string{"?x", "?y"}},
	}
	g := Grounder{}
	cat, err := g.Ground(predicates, nil, objects)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}
	// 3 objects, arity 2, without repetition: 3*2 = 6 facts.
	if got, want := cat.NumFacts(), 6; got != want {
		t.Fatalf("NumFacts() = %d, want %d", got, want)
	}
}

func TestGroundAllowRepeatedArguments(t *testing.T) {
	objects := []Object{"a", "b"}
	predicates := []PredicateSchema{
		{Name: "Adjacent", Params: []string{"?x", "?y"}},
	}
	g := Grounder{AllowRepeatedArguments: true}
	cat, err := g.Ground(predicates, nil, objects)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}
	// 2 objects, arity 2, with repetition: 2*2 = 4 facts, including Adjacent(a,a).
	if got, want := cat.NumFacts(), 4; got != want {
		t.Fatalf("NumFacts() = %d, want %d", got, want)
	}
	if _, ok := cat.lookupFact("Adjacent", []Object{"a", "a"}); !ok {
		t.Fatalf("expected reflexive fact Adjacent(a, a) to be grounded")
	}
}

func TestGroundParallelMatchesSequentialCatalog(t *testing.T) {
	objects, predicates, actions := blocksWorldDomain()
	g := Grounder{}

	seq, err := g.Ground(predicates, actions, objects)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}

	pool := parallel.NewWorkerPool(context.Background(), 4)
	defer pool.Close()
	par, err := g.GroundParallel(context.Background(), predicates, actions, objects, pool)
	if err != nil {
		t.Fatalf("GroundParallel: %v", err)
	}

	// The parallel path must produce the same universe in the same interned
	// order as the sequential one, regardless of goroutine scheduling.
	render := func(cat *Catalog) ([]string, []string) {
		facts := make([]string, cat.NumFacts())
		for i, f := range cat.Facts() {
			facts[i] = f.String()
		}
		acts := make([]string, cat.NumActions())
		for i, a := range cat.Actions() {
			acts[i] = a.String()
		}
		return facts, acts
	}
	seqFacts, seqActions := render(seq)
	parFacts, parActions := render(par)
	if diff := cmp.Diff(seqFacts, parFacts); diff != "" {
		t.Fatalf("fact catalogs differ (-sequential +parallel):\n%s", diff)
	}
	if diff := cmp.Diff(seqActions, parActions); diff != "" {
		t.Fatalf("action catalogs differ (-sequential +parallel):\n%s", diff)
	}
}

func TestGroundRejectsOverlappingAddDelete(t *testing.T) {
	objects := []Object{"x"}
	actions := []ActionSchema{
		{
			Name:   "Bad",
			Params: []string{"?x"},
			Pre:    []FactTemplate{},
			Add:    []FactTemplate{{Pred: "P", Args: []string{"?x"}}},
			Del:    []FactTemplate{{Pred: "P", Args: []string{"?x"}}},
		},
	}
	g := Grounder{}
	_, err := g.Ground(nil, actions, objects)
	if err == nil {
		t.Fatalf("expected an error")
	}
	pe, ok := err.(*PlanError)
	if !ok {
		t.Fatalf("expected *PlanError, got %T", err)
	}
	if pe.Kind != OverlappingAddDelete {
		t.Fatalf("Kind = %v, want OverlappingAddDelete", pe.Kind)
	}
}

func TestGroundRejectsUnboundParameter(t *testing.T) {
	objects := []Object{"x"}
	actions := []ActionSchema{
		{
			Name:   "Bad",
			Params: []string{"?x"},
			Pre:    []FactTemplate{{Pred: "P", Args: []string{"?undeclared"}}},
		},
	}
	g := Grounder{}
	_, err := g.Ground(nil, actions, objects)
	if err == nil {
		t.Fatalf("expected an error")
	}
	pe, ok := err.(*PlanError)
	if !ok {
		t.Fatalf("expected *PlanError, got %T", err)
	}
	if pe.Kind != UnboundParameter {
		t.Fatalf("Kind = %v, want UnboundParameter", pe.Kind)
	}
}

func TestGroundActionPreAddDelAreDisjointFromSchemaButInterned(t *testing.T) {
	objects := []Object{"a", "b"}
	actions := []ActionSchema{
		{
			Name:   "Move",
			Params: []string{"?x", "?y"},
			Pre:    []FactTemplate{{Pred: "At", Args: []string{"?x"}}},
			Add:    []FactTemplate{{Pred: "At", Args: []string{"?y"}}},
			Del:    []FactTemplate{{Pred: "At", Args: []string{"?x"}}},
		},
	}
	g := Grounder{}
	cat, err := g.Ground(nil, actions, objects)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}
	// 2 objects, arity 2 without repetition: Move(a,b), Move(b,a).
	if got, want := cat.NumActions(), 2; got != want {
		t.Fatalf("NumActions() = %d, want %d", got, want)
	}
	for _, a := range cat.Actions() {
		if a.Add.Intersects(a.Del) {
			t.Fatalf("action %s has overlapping add/delete", a)
		}
	}
}
