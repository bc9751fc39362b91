package planner

import "context"

// BaselineSearch runs uninformed DFS/BFS over the ground-action transition
// system, as a baseline against the informed planners. Every transition
// taken to reach a frontier node, including the very first one out of the
// initial state, is recorded on that node's path.
type BaselineSearch struct {
	Catalog *Catalog
}

func NewBaselineSearch(cat *Catalog) *BaselineSearch {
	return &BaselineSearch{Catalog: cat}
}

type baselineNode struct {
	state FactSet
	path  []*Action
}

// DFS explores successors depth-first, stack-based, with a single visited
// set shared across the whole search (unlike EHC's per-iteration reset).
func (b *BaselineSearch) DFS(ctx context.Context, init, goal FactSet) (SequentialPlan, bool, error) {
	return b.search(ctx, init, goal, true)
}

// BFS explores successors breadth-first, queue-based, guaranteeing the
// shortest action-count plan when one exists.
func (b *BaselineSearch) BFS(ctx context.Context, init, goal FactSet) (SequentialPlan, bool, error) {
	return b.search(ctx, init, goal, false)
}

func (b *BaselineSearch) search(ctx context.Context, init, goal FactSet, depthFirst bool) (SequentialPlan, bool, error) {
	if Satisfies(init, goal) {
		return nil, true, nil
	}

	visited := map[string]bool{stateKey(init): true}
	frontier := []baselineNode{{state: init}}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, wrapError(Timeout, err, "baseline: cancelled")
		}

		var node baselineNode
		if depthFirst {
			node = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			node = frontier[0]
			frontier = frontier[1:]
		}

		for _, a := range b.Catalog.Actions() {
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
			child := baselineNode{state: succ, path: path}

			if Satisfies(succ, goal) {
				return SequentialPlan(child.path), true, nil
			}
			frontier = append(frontier, child)
		}
	}

	return nil, false, nil
}
