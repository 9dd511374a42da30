package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// ModuleGraph orders modules so that every module comes after the modules it depends on.
type ModuleGraph struct {
	deps           map[string][]string
	declared       []string
	executionOrder []string
}

// NewModuleGraph creates a new empty ModuleGraph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		deps: make(map[string][]string),
	}
}

// AddModule adds a module and its dependencies to the graph.
// It returns an error if the module was already added.
func (g *ModuleGraph) AddModule(name string, deps []string) error {
	if _, exists := g.deps[name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateModule, "module added twice"), "module", name)
	}
	g.deps[name] = deps
	g.declared = append(g.declared, name)
	return nil
}

// Has reports whether the module was added.
func (g *ModuleGraph) Has(name string) bool {
	_, ok := g.deps[name]
	return ok
}

// Validate checks for cycles and missing dependencies using a depth-first topological sort.
// Modules are visited in declaration order and dependencies in listed order, so the
// resulting order is stable and keeps independent modules where they were declared.
func (g *ModuleGraph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.deps))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		deps, exists := g.deps[u]
		if !exists {
			err := zerr.With(zerr.Wrap(ErrMissingDependency, "dependency is not a listed module"), "dependency", u)
			if len(path) > 1 {
				err = zerr.With(err, "module", path[len(path)-2])
			}
			return err
		}

		for _, dep := range deps {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.declared {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func buildCycleError(path []string, dep string) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), dep)
	return zerr.With(zerr.Wrap(ErrCycleDetected, "modules depend on each other"), "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields module names in execution order.
// It assumes Validate() has been called and returned nil.
func (g *ModuleGraph) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range g.executionOrder {
			if !yield(name) {
				return
			}
		}
	}
}
