package planner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gitrdm/stripsplan/internal/parallel"
)

// actionNode is one action-layer entry during Graphplan expansion: either a
// real ground Action, or the distinguished pseudo-action NoOp(f) for a fact
// f that holds at the level being expanded.
type actionNode struct {
	action *Action // nil for a NoOp
	fact   *Fact   // non-nil only for a NoOp: the fact it propagates
	pre    FactSet
	add    FactSet
	del    FactSet
}

func (n *actionNode) isNoop() bool { return n.action == nil }

// graphLevel is one leveled-graph layer. facts is this level's fact set.
// nodes/actionMutex are populated the first time this level is expanded,
// mutating the stored level in place. factMutex is the mutex relation *among this
// level's own facts*, computed when this level was created as the result of
// expanding its predecessor; level 0's factMutex is always empty.
type graphLevel struct {
	facts       FactSet
	nodes       []*actionNode
	actionMutex map[pairKey]struct{}
	factMutex   map[pairKey]struct{}
}

type pairKey uint64

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey(uint64(uint32(a))<<32 | uint64(uint32(b)))
}

func pairMutex(m map[pairKey]struct{}, a, b int) bool {
	if m == nil || a == b {
		return false
	}
	_, ok := m[makePairKey(a, b)]
	return ok
}

// Graphplan builds a leveled planning graph with mutex analysis and
// extracts a layered plan by backward search.
type Graphplan struct {
	Catalog *Catalog
	Logger  *log.Logger

	// Parallel, when true and Pool is non-nil, fans per-action
	// applicability checks during level expansion out across Pool.
	Parallel bool
	Pool     *parallel.WorkerPool
}

// NewGraphplan creates a Graphplan engine over cat.
func NewGraphplan(cat *Catalog) *Graphplan {
	return &Graphplan{Catalog: cat}
}

func (gp *Graphplan) logf(format string, args ...interface{}) {
	if gp.Logger != nil {
		gp.Logger.Printf(format, args...)
	}
}

// Solve runs Graphplan from init toward goal, expanding and attempting
// extraction level by level until a LayeredPlan is found or the graph
// levels off (facts and mutexes both stop changing), in which case it
// returns (nil, false, nil). Extraction is attempted once at the
// leveled-off layer; the graph is not extended past level-off, so a plan
// whose extraction would need further layers beyond that point is not found.
func (gp *Graphplan) Solve(ctx context.Context, init, goal FactSet) (LayeredPlan, bool, error) {
	levels := []*graphLevel{{facts: init}}
	memo := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return nil, false, wrapError(Timeout, err, "graphplan: cancelled")
		}

		n := len(levels) - 1
		if gp.possibleGoal(levels, n, goal) {
			if plan, ok := gp.extractFrom(levels, n, goal, memo); ok {
				lp := LayeredPlan(plan)
				if err := gp.validateExtraction(lp, init, goal); err != nil {
					return nil, false, err
				}
				return lp, true, nil
			}
		}

		next, changed, err := gp.expandLevel(ctx, levels, n)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			gp.logf("graphplan: leveled off at layer %d, no plan", n)
			return nil, false, nil
		}
		levels = append(levels, next)
	}
}

func (gp *Graphplan) possibleGoal(levels []*graphLevel, n int, goal FactSet) bool {
	level := levels[n]
	if !goal.IsSubsetOf(level.facts) {
		return false
	}
	goalIDs := goal.ToSlice()
	for i := 0; i < len(goalIDs); i++ {
		for j := i + 1; j < len(goalIDs); j++ {
			if pairMutex(level.factMutex, goalIDs[i], goalIDs[j]) {
				return false
			}
		}
	}
	return true
}

// expandLevel expands levels[i] into a new level, mutating levels[i] in
// place with its nodes/actionMutex. Returns (nil, false, nil) when the new level is
// identical to levels[i] in both facts and mutexes (level-off).
func (gp *Graphplan) expandLevel(ctx context.Context, levels []*graphLevel, i int) (*graphLevel, bool, error) {
	now := levels[i]

	applicable, err := gp.applicableActions(ctx, now.facts)
	if err != nil {
		return nil, false, err
	}

	nodes := make([]*actionNode, 0, now.facts.Len()+len(applicable))
	now.facts.ForEach(func(fid int) {
		f := gp.Catalog.Fact(fid)
		nodes = append(nodes, &actionNode{fact: f, pre: NewFactSet(gp.Catalog.NumFacts(), fid), add: NewFactSet(gp.Catalog.NumFacts(), fid), del: EmptyFactSet(gp.Catalog.NumFacts())})
	})
	for _, a := range applicable {
		nodes = append(nodes, &actionNode{action: a, pre: a.Pre, add: a.Add, del: a.Del})
	}
	now.nodes = nodes

	newFacts := EmptyFactSet(gp.Catalog.NumFacts())
	for _, node := range nodes {
		newFacts = newFacts.Union(node.add)
	}

	now.actionMutex = gp.computeActionMutex(nodes, now.factMutex)

	newFactMutex := gp.computeFactMutex(newFacts, nodes, now.actionMutex)

	if newFacts.Equal(now.facts) && mutexEqual(newFactMutex, now.factMutex) {
		return nil, false, nil
	}
	return &graphLevel{facts: newFacts, factMutex: newFactMutex}, true, nil
}

func (gp *Graphplan) applicableActions(ctx context.Context, facts FactSet) ([]*Action, error) {
	all := gp.Catalog.Actions()
	if !gp.Parallel || gp.Pool == nil || len(all) == 0 {
		out := make([]*Action, 0, len(all))
		for _, a := range all {
			if Applicable(a, facts) {
				out = append(out, a)
			}
		}
		return out, nil
	}

	results := make([]bool, len(all))
	const chunk = 64
	chunks := (len(all) + chunk - 1) / chunk
	done := make(chan struct{}, chunks)
	for c := 0; c < chunks; c++ {
		lo, hi := c*chunk, c*chunk+chunk
		if hi > len(all) {
			hi = len(all)
		}
		ok := gp.Pool.Submit(func() {
			for k := lo; k < hi; k++ {
				results[k] = Applicable(all[k], facts)
			}
			done <- struct{}{}
		})
		if !ok {
			return nil, wrapError(Timeout, gp.Pool.Err(), "graphplan: cancelled while scanning applicability")
		}
	}
	for c := 0; c < chunks; c++ {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, wrapError(Timeout, ctx.Err(), "graphplan: context cancelled")
		}
	}
	out := make([]*Action, 0, len(all))
	for i, ok := range results {
		if ok {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// computeActionMutex marks a pair mutex on inconsistent effects,
// interference, or competing needs (against prevFactMutex, the mutex
// relation among the facts at the level being expanded).
func (gp *Graphplan) computeActionMutex(nodes []*actionNode, prevFactMutex map[pairKey]struct{}) map[pairKey]struct{} {
	out := make(map[pairKey]struct{})
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.del.Intersects(b.add) || b.del.Intersects(a.add) {
				out[makePairKey(i, j)] = struct{}{}
				continue
			}
			if a.del.Intersects(b.pre) || b.del.Intersects(a.pre) {
				out[makePairKey(i, j)] = struct{}{}
				continue
			}
			if factPairsMutex(a.pre, b.pre, prevFactMutex) {
				out[makePairKey(i, j)] = struct{}{}
			}
		}
	}
	return out
}

func factPairsMutex(a, b FactSet, mutex map[pairKey]struct{}) bool {
	if mutex == nil {
		return false
	}
	found := false
	a.ForEach(func(p int) {
		if found {
			return
		}
		b.ForEach(func(q int) {
			if found {
				return
			}
			if pairMutex(mutex, p, q) {
				found = true
			}
		})
	})
	return found
}

// computeFactMutex marks inconsistent support: {f,g} is mutex iff every
// pair of producers of f and g is action-mutex.
func (gp *Graphplan) computeFactMutex(newFacts FactSet, nodes []*actionNode, actionMutex map[pairKey]struct{}) map[pairKey]struct{} {
	producers := make(map[int][]int) // fact id -> node indices producing it
	newFacts.ForEach(func(fid int) {
		for ni, node := range nodes {
			if node.add.Contains(fid) {
				producers[fid] = append(producers[fid], ni)
			}
		}
	})

	ids := newFacts.ToSlice()
	out := make(map[pairKey]struct{})
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			f, g := ids[i], ids[j]
			if allProducersMutex(producers[f], producers[g], actionMutex) {
				out[makePairKey(f, g)] = struct{}{}
			}
		}
	}
	return out
}

func allProducersMutex(fp, gq []int, actionMutex map[pairKey]struct{}) bool {
	for _, a := range fp {
		for _, b := range gq {
			if a == b {
				return false
			}
			if !pairMutex(actionMutex, a, b) {
				return false
			}
		}
	}
	return true
}

func mutexEqual(a, b map[pairKey]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// extractFrom performs backward, layered, memoized extraction: it
// finds a set of nodes at levels[layer-1] that jointly, non-mutexly produce
// every fact in goalSet, recurses on the union of their preconditions as the
// new goal at layer-1, and bottoms out when layer reaches 0 with goalSet ⊆
// init. Returns real-action layers in ascending layer order (layer 1
// first), ready to use as a LayeredPlan directly.
func (gp *Graphplan) extractFrom(levels []*graphLevel, layer int, goalSet FactSet, memo map[string]bool) ([][]*Action, bool) {
	if layer == 0 {
		if goalSet.IsSubsetOf(levels[0].facts) {
			return [][]*Action{}, true
		}
		return nil, false
	}

	key := memoKey(layer, goalSet)
	if memo[key] {
		return nil, false
	}

	prevLevel := levels[layer-1]
	goalIDs := goalSet.ToSlice()
	candidates := make([][]int, len(goalIDs))
	for i, fid := range goalIDs {
		for ni, node := range prevLevel.nodes {
			if node.add.Contains(fid) {
				candidates[i] = append(candidates[i], ni)
			}
		}
		if len(candidates[i]) == 0 {
			memo[key] = true
			return nil, false
		}
	}

	chosenSet := make(map[int]bool)
	var result [][]*Action
	var choose func(i int) bool
	choose = func(i int) bool {
		if i == len(goalIDs) {
			// Complete assignment: recurse on the union of the chosen
			// producers' preconditions. A failure below backtracks into
			// the candidate loops rather than condemning this goal set,
			// so every producer combination is tried before memoizing.
			prevGoal := EmptyFactSet(gp.Catalog.NumFacts())
			for ni := range chosenSet {
				prevGoal = prevGoal.Union(prevLevel.nodes[ni].pre)
			}
			rest, ok := gp.extractFrom(levels, layer-1, prevGoal, memo)
			if !ok {
				return false
			}
			var real []*Action
			for ni := range chosenSet {
				if node := prevLevel.nodes[ni]; !node.isNoop() {
					real = append(real, node.action)
				}
			}
			sort.Slice(real, func(a, b int) bool { return real[a].ID() < real[b].ID() })
			result = append(rest, real)
			return true
		}
		for _, c := range candidates[i] {
			if chosenSet[c] {
				// Already supporting an earlier goal fact.
				if choose(i + 1) {
					return true
				}
				continue
			}
			conflict := false
			for other := range chosenSet {
				if pairMutex(prevLevel.actionMutex, other, c) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			chosenSet[c] = true
			if choose(i + 1) {
				return true
			}
			delete(chosenSet, c)
		}
		return false
	}
	if !choose(0) {
		memo[key] = true
		return nil, false
	}
	return result, true
}

// validateExtraction replays an extracted plan from init and confirms every
// layer is jointly applicable and the goal holds at the end. A failure here
// is a programmer error in expansion or extraction, never a property of the
// problem, so it surfaces as a GoalUnreachable error rather than a "no plan"
// result.
func (gp *Graphplan) validateExtraction(plan LayeredPlan, init, goal FactSet) error {
	s := init
	for li, layer := range plan {
		for _, a := range layer {
			if !Applicable(a, s) {
				return newError(GoalUnreachable, "extracted plan replay: %s is not applicable at layer %d", a, li)
			}
		}
		for _, a := range layer {
			s = Apply(a, s)
		}
	}
	if !Satisfies(s, goal) {
		return newError(GoalUnreachable, "extracted plan replay does not reach the goal")
	}
	return nil
}

func memoKey(layer int, goalSet FactSet) string {
	ids := goalSet.ToSlice()
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%d|%s", layer, strings.Join(strs, ","))
}

