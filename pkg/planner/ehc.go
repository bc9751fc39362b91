package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// EHC is enforced hill-climbing: repeatedly take the first
// breadth-first-discovered successor state with strictly smaller h_FF than
// the current state, escaping plateaus that plain hill-climbing would get
// stuck on. It owns one RPG instance and reuses it across every h_FF call
// in a run.
type EHC struct {
	Catalog *Catalog
	Logger  *log.Logger

	rpg *RPG
}

func NewEHC(cat *Catalog) *EHC {
	return &EHC{Catalog: cat, rpg: NewRPG(cat)}
}

func (e *EHC) logf(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

func (e *EHC) hff(state, goal FactSet) (int, bool) {
	return e.rpg.HFF(state, goal)
}

func stateKey(s FactSet) string {
	ids := s.ToSlice()
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(strs, ",")
}

// bfsNode is one entry in the plateau-search frontier: a state reached
// from the EHC current state, together with the ground-action path taken
// to reach it.
type bfsNode struct {
	state FactSet
	path  []*Action
}

// Solve runs enforced hill-climbing from init toward goal. It returns
// (nil, false, nil) — an ordinary negative result, not an error — if h_FF
// judges the goal relaxed-unreachable from the current state, or if a
// plateau's breadth-first search exhausts every reachable state without
// finding one with strictly lower h_FF than the plateau's root.
func (e *EHC) Solve(ctx context.Context, init, goal FactSet) (SequentialPlan, bool, error) {
	state := init
	var plan SequentialPlan

	if Satisfies(state, goal) {
		return plan, true, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, false, wrapError(Timeout, err, "ehc: cancelled")
		}

		h, ok := e.hff(state, goal)
		if !ok {
			e.logf("ehc: goal is relaxed-unreachable from the current state")
			return nil, false, nil
		}
		if h == 0 && Satisfies(state, goal) {
			if err := e.validatePlan(plan, init, goal); err != nil {
				return nil, false, err
			}
			return plan, true, nil
		}

		step, improved, err := e.searchBetterState(ctx, state, goal, h)
		if err != nil {
			return nil, false, err
		}
		if !improved {
			return nil, false, nil
		}

		state = step.state
		plan = append(plan, step.path...)

		if Satisfies(state, goal) {
			if err := e.validatePlan(plan, init, goal); err != nil {
				return nil, false, err
			}
			return plan, true, nil
		}
	}
}

// validatePlan replays plan from init and confirms the goal holds. A failure
// means the plateau bookkeeping corrupted the accumulated path, never that
// the problem is unsolvable, so it surfaces as a PlateauExhausted error
// rather than a "no plan" result.
func (e *EHC) validatePlan(plan SequentialPlan, init, goal FactSet) error {
	s := init
	for i, a := range plan {
		if !Applicable(a, s) {
			return newError(PlateauExhausted, "plan replay: action %d (%s) is not applicable", i, a)
		}
		s = Apply(a, s)
	}
	if !Satisfies(s, goal) {
		return newError(PlateauExhausted, "plan replay does not reach the goal")
	}
	return nil
}

// searchBetterState performs a breadth-first exploration of states
// reachable from root, layer by layer, re-evaluating h_FF on every newly
// generated state (not only goal-satisfying ones) and returning as soon as
// it finds one with h strictly less than currentH. improved=false with a
// nil error means the plateau was exhausted without any improving state.
func (e *EHC) searchBetterState(ctx context.Context, root, goal FactSet, currentH int) (step bfsNode, improved bool, err error) {
	visited := map[string]bool{stateKey(root): true}
	frontier := []bfsNode{{state: root}}

	for len(frontier) > 0 {
		var next []bfsNode
		for _, node := range frontier {
			if err := ctx.Err(); err != nil {
				return bfsNode{}, false, wrapError(Timeout, err, "ehc: cancelled during plateau search")
			}
			for _, a := range e.Catalog.Actions() {
				if !Applicable(a, node.state) {
					continue
				}
				succ := Apply(a, node.state)
				key := stateKey(succ)
				if visited[key] {
					continue
				}
				visited[key] = true

				path := make([]*Action, len(node.path)+1)
				copy(path, node.path)
				path[len(node.path)] = a
				child := bfsNode{state: succ, path: path}

				if Satisfies(succ, goal) {
					return child, true, nil
				}
				h, ok := e.hff(succ, goal)
				if ok && h < currentH {
					return child, true, nil
				}
				next = append(next, child)
			}
		}
		frontier = next
	}

	e.logf("ehc: plateau search exhausted reachable states without improving h_FF below %d", currentH)
	return bfsNode{}, false, nil
}
