package planner

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/gitrdm/stripsplan/internal/parallel"
)

// Problem is a fully grounded planning problem: a Catalog together with an
// init/goal FactSet pair, ready to hand to any of the four planning entry
// points. Build is the sole constructor; Problem is otherwise read-only and
// safe to plan against concurrently from multiple goroutines (doc.go).
type Problem struct {
	ID uuid.UUID

	Catalog *Catalog
	Init    FactSet
	Goal    FactSet
	Objects []Object

	logger *log.Logger
	pool   *parallel.WorkerPool

	grounder Grounder
}

// BuildOption configures Build beyond its required arguments.
type BuildOption func(*Problem)

// WithAllowRepeatedArguments switches grounding from k-permutations to
// k-tuples with repetition, for domains with reflexive ground facts.
func WithAllowRepeatedArguments(allow bool) BuildOption {
	return func(p *Problem) { p.grounder.AllowRepeatedArguments = allow }
}

// WithLogger attaches a logger threaded through Graphplan/EHC progress
// messages, tagged with the Problem's run ID.
func WithLogger(l *log.Logger) BuildOption {
	return func(p *Problem) { p.logger = l }
}

// WithParallelPool attaches a worker pool that PlanGraphplan uses for
// parallel applicability scanning during expansion: whenever a pool is
// attached, PlanGraphplan sets Graphplan.Parallel and hands it this pool.
// Build does not use the pool for grounding; parallel grounding is
// available separately through Grounder.GroundParallel.
func WithParallelPool(pool *parallel.WorkerPool) BuildOption {
	return func(p *Problem) { p.pool = pool }
}

// Build grounds predicates and actions over objects, validates init/goal
// literals against the resulting universe, and returns a ready-to-plan
// Problem.
func Build(objects []Object, predicates []PredicateSchema, actions []ActionSchema,
	init []FactLiteral, goal []FactLiteral, opts ...BuildOption) (*Problem, error) {

	p := &Problem{Objects: objects, ID: uuid.New()}
	for _, opt := range opts {
		opt(p)
	}

	known := make(map[Object]bool, len(objects))
	for _, o := range objects {
		known[o] = true
	}
	for _, lit := range init {
		for _, a := range lit.Args {
			if !known[a] {
				return nil, newError(UnknownObject, "init literal %s references unknown object %q", lit.Pred, a)
			}
		}
	}
	for _, lit := range goal {
		for _, a := range lit.Args {
			if !known[a] {
				return nil, newError(UnknownObject, "goal literal %s references unknown object %q", lit.Pred, a)
			}
		}
	}

	cat, err := p.grounder.Ground(predicates, actions, objects)
	if err != nil {
		return nil, err
	}
	p.Catalog = cat

	initSet := EmptyFactSet(cat.NumFacts())
	for _, lit := range init {
		f, ok := cat.lookupFact(lit.Pred, lit.Args)
		if !ok {
			return nil, newError(GoalOutsideUniverse, "init literal %s was never grounded", formatNameArgs(lit.Pred, lit.Args))
		}
		initSet = initSet.With(f.ID())
	}
	goalSet := EmptyFactSet(cat.NumFacts())
	for _, lit := range goal {
		f, ok := cat.lookupFact(lit.Pred, lit.Args)
		if !ok {
			return nil, newError(GoalOutsideUniverse, "goal literal %s was never grounded", formatNameArgs(lit.Pred, lit.Args))
		}
		goalSet = goalSet.With(f.ID())
	}

	p.Init = initSet
	p.Goal = goalSet
	return p, nil
}

// taggedLogger derives a logger whose prefix carries the Problem's run ID,
// so log lines from concurrent solves against different Problems remain
// distinguishable. Nil when no logger was attached.
func (p *Problem) taggedLogger() *log.Logger {
	if p.logger == nil {
		return nil
	}
	prefix := p.logger.Prefix() + "[" + p.ID.String()[:8] + "] "
	return log.New(p.logger.Writer(), prefix, p.logger.Flags())
}

// PlanGraphplan runs Graphplan and returns a layered plan.
func (p *Problem) PlanGraphplan(ctx context.Context) (LayeredPlan, bool, error) {
	gp := NewGraphplan(p.Catalog)
	gp.Logger = p.taggedLogger()
	if p.pool != nil {
		gp.Parallel = true
		gp.Pool = p.pool
	}
	return gp.Solve(ctx, p.Init, p.Goal)
}

// PlanEHC runs enforced hill-climbing guided by the h_FF heuristic and
// returns a sequential plan.
func (p *Problem) PlanEHC(ctx context.Context) (SequentialPlan, bool, error) {
	e := NewEHC(p.Catalog)
	e.Logger = p.taggedLogger()
	return e.Solve(ctx, p.Init, p.Goal)
}

// PlanBFS runs uninformed breadth-first search and returns a sequential
// plan, guaranteed shortest by action count when one exists.
func (p *Problem) PlanBFS(ctx context.Context) (SequentialPlan, bool, error) {
	b := NewBaselineSearch(p.Catalog)
	return b.BFS(ctx, p.Init, p.Goal)
}

// PlanDFS runs uninformed depth-first search and returns a sequential plan.
func (p *Problem) PlanDFS(ctx context.Context) (SequentialPlan, bool, error) {
	b := NewBaselineSearch(p.Catalog)
	return b.DFS(ctx, p.Init, p.Goal)
}
