package step

import (
	"errors"
	"fmt"
	"sort"
)

// Errors for Graph operations.
var (
	ErrDuplicateStep    = errors.New("step with this ID already exists")
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	ErrMissingDep       = errors.New("step depends on nonexistent step")
)

// Graph is a directed acyclic graph of steps. It records the declared
// prerequisites of every step and produces a topological execution order.
type Graph struct {
	steps     map[string]Step
	order     []string            // insertion order, for stable sorting
	dependsOn map[string][]string // step ID -> dependency IDs
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		steps:     make(map[string]Step),
		dependsOn: make(map[string][]string),
	}
}

// Len returns the number of steps in the graph.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Add adds a step to the graph.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (g *Graph) Add(s Step) error {
	id := s.ID().String()

	if _, exists := g.steps[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, id)
	}

	g.steps[id] = s
	g.order = append(g.order, id)

	deps := s.DependsOn()
	depIDs := make([]string, len(deps))
	for i, dep := range deps {
		depIDs[i] = dep.String()
	}
	g.dependsOn[id] = depIDs

	return nil
}

// Get retrieves a step by ID.
func (g *Graph) Get(id ID) (Step, bool) {
	s, ok := g.steps[id.String()]
	return s, ok
}

// Steps returns all steps in insertion order.
func (g *Graph) Steps() []Step {
	steps := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		steps = append(steps, g.steps[id])
	}
	return steps
}

// Validate checks that all declared dependencies exist in the graph.
func (g *Graph) Validate() error {
	for id, deps := range g.dependsOn {
		for _, depID := range deps {
			if _, exists := g.steps[depID]; !exists {
				return fmt.Errorf("%w: step %q depends on %q", ErrMissingDep, id, depID)
			}
		}
	}
	return nil
}

// TopologicalSort returns steps in dependency order: a step always comes
// after everything it depends on. Among steps with no ordering constraint,
// insertion order is preserved so the run follows the configuration.
// Returns ErrCyclicDependency if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]Step, error) {
	// Kahn's algorithm, with a sorted ready queue for determinism.
	position := make(map[string]int, len(g.order))
	for i, id := range g.order {
		position[id] = i
	}

	inDegree := make(map[string]int, len(g.steps))
	dependedBy := make(map[string][]string)
	for id := range g.steps {
		inDegree[id] = 0
	}
	for id, deps := range g.dependsOn {
		for _, depID := range deps {
			if _, exists := g.steps[depID]; exists {
				inDegree[id]++
				dependedBy[depID] = append(dependedBy[depID], id)
			}
		}
	}

	ready := make([]string, 0, len(g.steps))
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sortByPosition(ready, position)

	sorted := make([]Step, 0, len(g.steps))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, g.steps[id])

		released := make([]string, 0)
		for _, dependent := range dependedBy[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				released = append(released, dependent)
			}
		}
		sortByPosition(released, position)
		ready = append(ready, released...)
	}

	if len(sorted) != len(g.steps) {
		remaining := make([]string, 0)
		for id, deg := range inDegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, fmt.Errorf("%w: involving %v", ErrCyclicDependency, remaining)
	}

	return sorted, nil
}

func sortByPosition(ids []string, position map[string]int) {
	sort.Slice(ids, func(i, j int) bool {
		return position[ids[i]] < position[ids[j]]
	})
}
