package planner

import "sort"

// rpgActionNode mirrors actionNode but for the relaxed (delete-ignoring)
// graph, where only preconditions and add-effects matter.
type rpgActionNode struct {
	action *Action // nil for a NoOp
	fact   *Fact   // non-nil only for a NoOp
	pre    FactSet
	add    FactSet
}

func (n *rpgActionNode) isNoop() bool { return n.action == nil }

// RPG is the relaxed planning graph: Graphplan expansion with delete
// effects ignored, so fact layers grow monotonically and there are no
// mutexes. It maintains layer-membership bookkeeping and a reverse
// precondition index so it can be Reset and re-run many times from EHC
// without reallocating that index.
type RPG struct {
	cat *Catalog

	// reverseIndex[f] = ground actions having fact f as a precondition.
	// Built once by NewRPG and never mutated again.
	reverseIndex [][]*Action

	levels []rpgLevel

	layerFact   []int // fact id -> first layer it appears in, -1 if unreached
	layerAction []int // action id -> first layer it becomes applicable, -1 if unreached

	goal FactSet

	counters []int // action id -> number of satisfied preconditions so far
	ready    []*Action
}

type rpgLevel struct {
	facts FactSet
	nodes []*rpgActionNode
}

// NewRPG builds the reverse-precondition index for cat once; call Reset
// before each Solve to seed a particular init/goal.
func NewRPG(cat *Catalog) *RPG {
	r := &RPG{cat: cat}
	r.reverseIndex = make([][]*Action, cat.NumFacts())
	for _, a := range cat.Actions() {
		a.Pre.ForEach(func(fid int) {
			r.reverseIndex[fid] = append(r.reverseIndex[fid], a)
		})
	}
	return r
}

// Reset clears all level/layer/counter state and reseeds from a fresh
// init/goal, without reallocating the reverse-precondition index.
func (r *RPG) Reset(init, goal FactSet) {
	r.levels = r.levels[:0]
	r.levels = append(r.levels, rpgLevel{facts: init})
	r.goal = goal

	r.layerFact = make([]int, r.cat.NumFacts())
	for i := range r.layerFact {
		r.layerFact[i] = -1
	}
	r.layerAction = make([]int, r.cat.NumActions())
	for i := range r.layerAction {
		r.layerAction[i] = -1
	}
	r.counters = make([]int, r.cat.NumActions())
	r.ready = r.ready[:0]
	for _, a := range r.cat.Actions() {
		// An action with no preconditions never sees a counter increment,
		// so it is ready from layer 0 unconditionally.
		if a.Pre.IsEmpty() {
			r.ready = append(r.ready, a)
		}
	}

	init.ForEach(func(fid int) {
		r.layerFact[fid] = 0
		for _, a := range r.reverseIndex[fid] {
			r.counters[a.ID()]++
			if r.counters[a.ID()] == a.Pre.Len() {
				r.ready = append(r.ready, a)
			}
		}
	})
}

// Solve expands the relaxed graph until the goal is relaxed-reachable (and
// extracts a relaxed plan) or the graph levels off with the goal still
// unreached, returning (nil, false) in the latter case: the goal is not
// relaxed-reachable from the init Reset was last called with.
func (r *RPG) Solve() ([]*Action, bool) {
	for {
		if r.possibleGoal() {
			return r.extractRelaxed(), true
		}
		if !r.expand() {
			return nil, false
		}
	}
}

// HFF returns the relaxed-plan heuristic h_FF(init, goal): the number of
// actions in the relaxed plan, and true, if the goal is relaxed-reachable;
// otherwise (0, false) standing in for h = ∞.
func (r *RPG) HFF(init, goal FactSet) (int, bool) {
	r.Reset(init, goal)
	plan, ok := r.Solve()
	if !ok {
		return 0, false
	}
	return len(plan), true
}

func (r *RPG) possibleGoal() bool {
	found := true
	r.goal.ForEach(func(fid int) {
		if r.layerFact[fid] < 0 {
			found = false
		}
	})
	return found
}

func (r *RPG) expand() bool {
	index := len(r.levels) - 1
	now := &r.levels[index]

	nodes := make([]*rpgActionNode, 0, now.facts.Len()+len(r.ready))
	newFacts := EmptyFactSet(r.cat.NumFacts())
	now.facts.ForEach(func(fid int) {
		f := r.cat.Fact(fid)
		nodes = append(nodes, &rpgActionNode{fact: f, pre: NewFactSet(r.cat.NumFacts(), fid), add: NewFactSet(r.cat.NumFacts(), fid)})
		newFacts = newFacts.With(fid)
	})

	var newlyReady []*Action
	for _, a := range r.ready {
		nodes = append(nodes, &rpgActionNode{action: a, pre: a.Pre, add: a.Add})
		if r.layerAction[a.ID()] < 0 {
			r.layerAction[a.ID()] = index
		}
		a.Add.ForEach(func(eid int) {
			newFacts = newFacts.With(eid)
			if r.layerFact[eid] < 0 {
				r.layerFact[eid] = index + 1
				for _, next := range r.reverseIndex[eid] {
					r.counters[next.ID()]++
					if r.counters[next.ID()] == next.Pre.Len() {
						newlyReady = append(newlyReady, next)
					}
				}
			}
		})
	}
	r.ready = append(r.ready, newlyReady...)
	now.nodes = nodes

	if newFacts.Equal(now.facts) {
		return false
	}
	r.levels = append(r.levels, rpgLevel{facts: newFacts})
	return true
}

// extractRelaxed walks the relaxed graph backward: partition goals by first-appearance
// layer, walk layers top-down choosing a minimum-difficulty producer per
// unmarked goal fact, and recurse its preconditions into earlier layers.
func (r *RPG) extractRelaxed() []*Action {
	m := len(r.levels) - 1 // highest fact-layer index
	if m < 1 {
		return nil
	}

	goalsByLayer := make([]map[int]bool, m+1)
	for i := range goalsByLayer {
		goalsByLayer[i] = make(map[int]bool)
	}
	r.goal.ForEach(func(fid int) {
		layer := r.layerFact[fid]
		if layer >= 1 && layer <= m {
			goalsByLayer[layer][fid] = true
		}
	})

	marked := make(map[[2]int]bool) // (layer, fact id) -> marked
	var plan []*Action

	for i := m; i >= 1; i-- {
		// Goals recursed into lower layers only land in goalsByLayer[<i],
		// so a sorted snapshot of this layer is stable; sorting keeps the
		// producer choices, and hence the plan, identical across runs.
		goals := make([]int, 0, len(goalsByLayer[i]))
		for g := range goalsByLayer[i] {
			goals = append(goals, g)
		}
		sort.Ints(goals)
		for _, g := range goals {
			if marked[[2]int{i, g}] {
				continue
			}
			var best *rpgActionNode
			bestDifficulty := -1
			for _, node := range r.levels[i-1].nodes {
				if !node.add.Contains(g) {
					continue
				}
				nodeLayer := 0
				if node.action != nil {
					nodeLayer = r.layerAction[node.action.ID()]
				} else {
					nodeLayer = r.layerFact[node.fact.ID()]
				}
				if nodeLayer != i-1 {
					continue
				}
				difficulty := 0
				node.pre.ForEach(func(p int) { difficulty += r.layerFact[p] })
				if best == nil || difficulty < bestDifficulty {
					best = node
					bestDifficulty = difficulty
				}
			}
			if best == nil {
				continue
			}
			if !best.isNoop() {
				plan = append(plan, best.action)
			}
			best.pre.ForEach(func(p int) {
				layer := r.layerFact[p]
				if layer != 0 && !marked[[2]int{layer, p}] {
					goalsByLayer[layer][p] = true
				}
			})
			best.add.ForEach(func(e int) {
				marked[[2]int{i, e}] = true
				marked[[2]int{i - 1, e}] = true
			})
		}
	}

	// Reverse into earliest-layer-first order.
	for lo, hi := 0, len(plan)-1; lo < hi; lo, hi = lo+1, hi-1 {
		plan[lo], plan[hi] = plan[hi], plan[lo]
	}
	return plan
}
