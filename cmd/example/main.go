// Command example demonstrates the planner library against two small
// domains: the classic "have cake and eat it too" problem and a
// three-block blocks-world instance.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gitrdm/stripsplan/pkg/planner"
)

func main() {
	logger := log.New(os.Stdout, "", 0)

	logger.Println("=== 1. Cake domain ===")
	runCake(logger)

	logger.Println()
	logger.Println("=== 2. Blocks-world domain ===")
	runBlocksWorld(logger)
}

// runCake builds and solves the textbook cake problem: you Have(Cake) and
// want both Have(Cake) and Eaten(Cake); Eat consumes the cake, Bake
// reproduces it.
func runCake(logger *log.Logger) {
	objects := []planner.Object{"cake"}

	predicates := []planner.PredicateSchema{
		{Name: "Have", Params: []string{"?x"}},
		{Name: "Eaten", Params: []string{"?x"}},
	}

	actions := []planner.ActionSchema{
		{
			Name:   "Eat",
			Params: []string{"?x"},
			Pre:    []planner.FactTemplate{{Pred: "Have", Args: []string{"?x"}}},
			Add:    []planner.FactTemplate{{Pred: "Eaten", Args: []string{"?x"}}},
			Del:    []planner.FactTemplate{{Pred: "Have", Args: []string{"?x"}}},
		},
		{
			Name:   "Bake",
			Params: []string{"?x"},
			Pre:    []planner.FactTemplate{},
			Add:    []planner.FactTemplate{{Pred: "Have", Args: []string{"?x"}}},
			Del:    []planner.FactTemplate{},
		},
	}

	init := []planner.FactLiteral{{Pred: "Have", Args: []planner.Object{"cake"}}}
	goal := []planner.FactLiteral{
		{Pred: "Have", Args: []planner.Object{"cake"}},
		{Pred: "Eaten", Args: []planner.Object{"cake"}},
	}

	problem, err := planner.Build(objects, predicates, actions, init, goal, planner.WithLogger(logger))
	if err != nil {
		logger.Fatalf("build: %v", err)
	}
	logger.Printf("run %s: %d facts, %d actions", problem.ID, problem.Catalog.NumFacts(), problem.Catalog.NumActions())

	ctx := context.Background()
	plan, found, err := problem.PlanGraphplan(ctx)
	if err != nil {
		logger.Fatalf("graphplan: %v", err)
	}
	report("graphplan", found, plan)

	seq, found, err := problem.PlanEHC(ctx)
	if err != nil {
		logger.Fatalf("ehc: %v", err)
	}
	report("ehc", found, seq)
}

// runBlocksWorld builds a three-block stacking problem: A is on B,
// B is on the table, C is on the table; the goal stacks B on C and A on B.
func runBlocksWorld(logger *log.Logger) {
	objects := []planner.Object{"A", "B", "C", "Table"}

	predicates := []planner.PredicateSchema{
		{Name: "On", Params: []string{"?x", "?y"}},
		{Name: "Clear", Params: []string{"?x"}},
	}

	actions := []planner.ActionSchema{
		{
			Name:   "Move",
			Params: []string{"?x", "?from", "?to"},
			Pre: []planner.FactTemplate{
				{Pred: "On", Args: []string{"?x", "?from"}},
				{Pred: "Clear", Args: []string{"?x"}},
				{Pred: "Clear", Args: []string{"?to"}},
			},
			Add: []planner.FactTemplate{
				{Pred: "On", Args: []string{"?x", "?to"}},
				{Pred: "Clear", Args: []string{"?from"}},
			},
			Del: []planner.FactTemplate{
				{Pred: "On", Args: []string{"?x", "?from"}},
				{Pred: "Clear", Args: []string{"?to"}},
			},
		},
	}

	init := []planner.FactLiteral{
		{Pred: "On", Args: []planner.Object{"A", "B"}},
		{Pred: "On", Args: []planner.Object{"B", "Table"}},
		{Pred: "On", Args: []planner.Object{"C", "Table"}},
		{Pred: "Clear", Args: []planner.Object{"A"}},
		{Pred: "Clear", Args: []planner.Object{"C"}},
		{Pred: "Clear", Args: []planner.Object{"Table"}},
	}
	goal := []planner.FactLiteral{
		{Pred: "On", Args: []planner.Object{"A", "B"}},
		{Pred: "On", Args: []planner.Object{"B", "C"}},
	}

	problem, err := planner.Build(objects, predicates, actions, init, goal, planner.WithLogger(logger))
	if err != nil {
		logger.Fatalf("build: %v", err)
	}
	logger.Printf("run %s: %d facts, %d actions", problem.ID, problem.Catalog.NumFacts(), problem.Catalog.NumActions())

	ctx := context.Background()
	plan, found, err := problem.PlanGraphplan(ctx)
	if err != nil {
		logger.Fatalf("graphplan: %v", err)
	}
	report("graphplan", found, plan)
}

func report(label string, found bool, plan fmt.Stringer) {
	if !found {
		fmt.Printf("[%s] no plan found\n", label)
		return
	}
	fmt.Printf("[%s] plan:\n%s\n", label, plan)
}
