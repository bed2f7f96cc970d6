package usecase

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// DependencyGraph is the dependency structure of a registry restricted to a
// subset of artifacts. Nodes are registry indices; edges point from an
// artifact to the artifacts it depends on.
type DependencyGraph struct {
	specs    []*domain.ArtifactSpec
	included []bool
	deps     [][]int
}

// NewDependencyGraph builds the graph over the transitive closure of roots.
// An unknown dependency fails with a NotFoundError naming the dependent.
func NewDependencyGraph(registry *domain.Registry, roots []int) (*DependencyGraph, error) {
	specs := registry.All()
	g := &DependencyGraph{
		specs:    specs,
		included: make([]bool, len(specs)),
		deps:     make([][]int, len(specs)),
	}

	queue := make([]int, 0, len(roots))
	for _, idx := range roots {
		if !g.included[idx] {
			g.included[idx] = true
			queue = append(queue, idx)
		}
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		spec := specs[idx]
		for _, dep := range spec.DependsOn {
			depIdx, ok := registry.Index(dep)
			if !ok {
				return nil, unknownDependency(registry, spec.Name, dep)
			}
			g.deps[idx] = append(g.deps[idx], depIdx)
			if !g.included[depIdx] {
				g.included[depIdx] = true
				queue = append(queue, depIdx)
			}
		}
	}

	return g, nil
}

func unknownDependency(registry *domain.Registry, dependent, dep string) error {
	_, err := registry.Get(dep)
	var nf domain.NotFoundError
	if errors.As(err, &nf) {
		nf.RequiredBy = dependent
		return nf
	}
	return domain.NotFoundError{Name: dep, RequiredBy: dependent}
}

// Size returns the number of artifacts in the graph
func (g *DependencyGraph) Size() int {
	n := 0
	for _, in := range g.included {
		if in {
			n++
		}
	}
	return n
}

// FindCycle returns one dependency cycle with its first node repeated at the
// end, or nil. Traversal is iterative and visits nodes in registry order, so
// the reported cycle is deterministic.
func (g *DependencyGraph) FindCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)

	state := make([]int, len(g.specs))
	for start := range g.specs {
		if !g.included[start] || state[start] != unvisited {
			continue
		}

		stack := []dfsFrame{{node: start}}
		state[start] = onStack

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(g.deps[top.node]) {
				state[top.node] = done
				stack = stack[:len(stack)-1]
				continue
			}

			dep := g.deps[top.node][top.next]
			top.next++

			switch state[dep] {
			case unvisited:
				state[dep] = onStack
				stack = append(stack, dfsFrame{node: dep})
			case onStack:
				return g.cyclePath(stack, dep)
			}
		}
	}
	return nil
}

type dfsFrame struct {
	node int
	next int
}

// cyclePath cuts the traversal stack at closing, which is already on it
func (g *DependencyGraph) cyclePath(stack []dfsFrame, closing int) []string {
	start := 0
	for i, f := range stack {
		if f.node == closing {
			start = i
			break
		}
	}

	cycle := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		cycle = append(cycle, g.specs[f.node].Name)
	}
	return append(cycle, g.specs[closing].Name)
}

// TopologicalOrder returns the included artifacts so that every artifact
// comes after its dependencies. Among artifacts that are ready at the same
// time the lowest registry index goes first. It fails with a
// CyclicDependencyError when no such order exists.
func (g *DependencyGraph) TopologicalOrder() ([]*domain.ArtifactSpec, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, domain.CyclicDependencyError{Cycle: cycle}
	}

	pending := make([]int, len(g.specs))
	dependents := make([][]int, len(g.specs))
	for idx, deps := range g.deps {
		if !g.included[idx] {
			continue
		}
		pending[idx] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], idx)
		}
	}

	ready := &intMinHeap{}
	for idx := range g.specs {
		if g.included[idx] && pending[idx] == 0 {
			*ready = append(*ready, idx)
		}
	}
	heap.Init(ready)

	order := make([]*domain.ArtifactSpec, 0, g.Size())
	for ready.Len() > 0 {
		idx := heap.Pop(ready).(int)
		order = append(order, g.specs[idx])
		for _, dependent := range dependents[idx] {
			pending[dependent]--
			if pending[dependent] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}

	// unreachable once FindCycle passed
	if len(order) != g.Size() {
		return nil, domain.CyclicDependencyError{Cycle: g.unordered(order)}
	}
	return order, nil
}

func (g *DependencyGraph) unordered(order []*domain.ArtifactSpec) []string {
	seen := make(map[string]bool, len(order))
	for _, spec := range order {
		seen[spec.Name] = true
	}
	var names []string
	for idx, spec := range g.specs {
		if g.included[idx] && !seen[spec.Name] {
			names = append(names, spec.Name)
		}
	}
	return names
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ResolvePlan turns a name/tag filter into a dependency-ordered plan
type ResolvePlan struct {
	log *slog.Logger
}

// NewResolvePlan creates a new resolve plan use case
func NewResolvePlan(log *slog.Logger) *ResolvePlan {
	return &ResolvePlan{log: log.With("component", "ResolvePlan")}
}

// Resolve selects the requested artifacts, pulls in their dependencies and
// orders the result. Unknown names and cycles are configuration errors.
func (r *ResolvePlan) Resolve(ctx context.Context, registry *domain.Registry, filter domain.PlanFilter) (*domain.DeploymentPlan, error) {
	roots, err := selectRoots(registry, filter)
	if err != nil {
		return nil, err
	}

	graph, err := NewDependencyGraph(registry, roots)
	if err != nil {
		return nil, err
	}

	steps, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	r.log.Debug("plan resolved", "filter", filter.String(), "requested", len(roots), "steps", len(steps))
	return &domain.DeploymentPlan{Filter: filter, Steps: steps}, nil
}

// selectRoots returns the registry indices chosen by filter: named artifacts
// plus every artifact carrying one of the tags
func selectRoots(registry *domain.Registry, filter domain.PlanFilter) ([]int, error) {
	if filter.IsEmpty() {
		roots := make([]int, registry.Len())
		for i := range roots {
			roots[i] = i
		}
		return roots, nil
	}

	var roots []int
	for _, name := range filter.Names {
		if _, err := registry.Get(name); err != nil {
			return nil, err
		}
		idx, _ := registry.Index(name)
		roots = append(roots, idx)
	}
	for _, tag := range filter.Tags {
		tagged, err := registry.Tagged(tag)
		if err != nil {
			return nil, err
		}
		for _, spec := range tagged {
			idx, _ := registry.Index(spec.Name)
			roots = append(roots, idx)
		}
	}
	return roots, nil
}
