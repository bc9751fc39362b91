package planner

import (
	"fmt"
	"strings"
)

// Object is an opaque symbolic identifier, drawn from the finite set of
// objects fixed for a problem.
type Object string

// Fact is a ground predicate: a predicate name paired with an ordered tuple
// of Objects. Facts are immutable and value-equal on (Name, Args); a Fact's
// ID is stable for the lifetime of the Catalog that interned it and is the
// only thing downstream code should hash or compare on.
type Fact struct {
	id   int
	Name string
	Args []Object
}

// ID returns the interned identifier of f within its Catalog.
func (f *Fact) ID() int { return f.id }

// String renders f per the display contract: Name(arg1, arg2, …).
func (f *Fact) String() string {
	return formatNameArgs(f.Name, f.Args)
}

func formatNameArgs(name string, args []Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = string(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

func factKey(name string, args []Object) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range args {
		b.WriteByte(0)
		b.WriteString(string(a))
	}
	return b.String()
}

// Action is a ground action: an action schema instantiated with Objects for
// every formal parameter. Preconditions, add-effects and delete-effects are
// each an immutable FactSet. Value-equal on (Name, Args).
type Action struct {
	id   int
	Name string
	Args []Object
	Pre  FactSet
	Add  FactSet
	Del  FactSet
}

// ID returns the interned identifier of a within its Catalog.
func (a *Action) ID() int { return a.id }

// String renders a per the display contract: Name(arg1, arg2, …).
func (a *Action) String() string {
	return formatNameArgs(a.Name, a.Args)
}

func actionKey(name string, args []Object) string {
	return factKey(name, args)
}

// Catalog is the grounder's output: the finite universe of ground facts and
// ground actions for a problem, interned once and read-only thereafter.
// Facts and Actions are referenced by stable integer ID so equality and
// hashing downstream reduce to integer comparison.
type Catalog struct {
	facts       []*Fact
	actions     []*Action
	factIndex   map[string]int
	actionIndex map[string]int
}

func newCatalog() *Catalog {
	return &Catalog{
		factIndex:   make(map[string]int),
		actionIndex: make(map[string]int),
	}
}

// internFact returns the existing Fact with the given (name, args) or
// creates and interns a new one, assigning it the next available ID.
func (c *Catalog) internFact(name string, args []Object) *Fact {
	key := factKey(name, args)
	if id, ok := c.factIndex[key]; ok {
		return c.facts[id]
	}
	f := &Fact{id: len(c.facts), Name: name, Args: append([]Object(nil), args...)}
	c.factIndex[key] = f.id
	c.facts = append(c.facts, f)
	return f
}

func (c *Catalog) lookupFact(name string, args []Object) (*Fact, bool) {
	id, ok := c.factIndex[factKey(name, args)]
	if !ok {
		return nil, false
	}
	return c.facts[id], true
}

func (c *Catalog) internAction(name string, args []Object, pre, add, del FactSet) *Action {
	key := actionKey(name, args)
	if id, ok := c.actionIndex[key]; ok {
		return c.actions[id]
	}
	a := &Action{
		id:   len(c.actions),
		Name: name,
		Args: append([]Object(nil), args...),
		Pre:  pre,
		Add:  add,
		Del:  del,
	}
	c.actionIndex[key] = a.id
	c.actions = append(c.actions, a)
	return a
}

// NumFacts returns the size of the ground-fact universe.
func (c *Catalog) NumFacts() int { return len(c.facts) }

// NumActions returns the size of the ground-action universe.
func (c *Catalog) NumActions() int { return len(c.actions) }

// Fact returns the interned Fact with the given ID.
func (c *Catalog) Fact(id int) *Fact { return c.facts[id] }

// ActionByID returns the interned Action with the given ID.
func (c *Catalog) ActionByID(id int) *Action { return c.actions[id] }

// Facts returns every interned Fact, in ID order.
func (c *Catalog) Facts() []*Fact { return c.facts }

// Actions returns every interned Action, in ID order.
func (c *Catalog) Actions() []*Action { return c.actions }
