// Package inherit maintains the nominal subtyping index over
// declaration identities. The subtype checker consults it as an O(1)
// fast path before falling back to structural comparison.
package inherit

import (
	"slices"
	"sync"

	"typecore/internal/symbols"
)

// node holds the inheritance facts for one declaration. The ancestor
// bitset and the resolution order are computed lazily and dropped
// whenever the parent edge set changes.
type node struct {
	parents  []symbols.DeclID
	children []symbols.DeclID // reverse edges, kept for invalidation

	ancestors bitset          // transitive ancestors, nil until computed
	mro       []symbols.DeclID // linearized resolution order, nil until computed
	mroValid  bool
}

// Graph is the inheritance index for one compilation session. The
// caches behind IsDerivedFrom and ResolutionOrder mutate lazily, so
// all access goes through one lock; see the session model for why
// finer grain is unnecessary.
type Graph struct {
	mu    sync.Mutex
	nodes map[symbols.DeclID]*node
}

// NewGraph creates an empty inheritance graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[symbols.DeclID]*node, 32)}
}

func (g *Graph) node(id symbols.DeclID) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{}
		g.nodes[id] = n
	}
	return n
}

// AddInheritance registers the direct parents of child, in declared
// order (base class first, then implemented interfaces left to
// right). Re-registering an identical parent list is a no-op, so a
// declaration may be re-bound across incremental runs without
// invalidating anything. The graph accepts cyclic edges; callers that
// need rejection use DetectsCycle first.
func (g *Graph) AddInheritance(child symbols.DeclID, parents []symbols.DeclID) {
	if !child.IsValid() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.node(child)
	if slices.Equal(n.parents, parents) {
		return
	}
	for _, old := range n.parents {
		p := g.node(old)
		p.children = slices.DeleteFunc(p.children, func(c symbols.DeclID) bool {
			return c == child
		})
	}
	n.parents = slices.Clone(parents)
	for _, parent := range parents {
		if !parent.IsValid() {
			continue
		}
		p := g.node(parent)
		if !slices.Contains(p.children, child) {
			p.children = append(p.children, child)
		}
	}
	g.invalidateLocked(child)
}

// invalidateLocked drops cached closures for id and everything that
// inherits from it.
func (g *Graph) invalidateLocked(id symbols.DeclID) {
	seen := map[symbols.DeclID]bool{}
	var walk func(symbols.DeclID)
	walk = func(cur symbols.DeclID) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		n, ok := g.nodes[cur]
		if !ok {
			return
		}
		n.ancestors = nil
		n.mro = nil
		n.mroValid = false
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(id)
}

// Parents returns the direct parent list of a declaration.
func (g *Graph) Parents(id symbols.DeclID) []symbols.DeclID {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.parents)
}

// IsDerivedFrom reports whether child transitively inherits from
// ancestor. A declaration is not derived from itself. O(1) after the
// first query computes the ancestor bitset.
func (g *Graph) IsDerivedFrom(child, ancestor symbols.DeclID) bool {
	if !child.IsValid() || !ancestor.IsValid() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[child]
	if !ok {
		return false
	}
	if n.ancestors == nil {
		n.ancestors = g.computeAncestorsLocked(child)
	}
	return n.ancestors.has(uint32(ancestor))
}

// computeAncestorsLocked walks parents depth-first. A cycle simply
// stops recursing at the repeated node.
func (g *Graph) computeAncestorsLocked(id symbols.DeclID) bitset {
	set := bitset{}
	visiting := map[symbols.DeclID]bool{id: true}
	var walk func(symbols.DeclID)
	walk = func(cur symbols.DeclID) {
		n, ok := g.nodes[cur]
		if !ok {
			return
		}
		for _, parent := range n.parents {
			if !parent.IsValid() || visiting[parent] {
				continue
			}
			visiting[parent] = true
			set.add(uint32(parent))
			walk(parent)
		}
	}
	walk(id)
	return set
}

// ResolutionOrder returns the member-lookup linearization for a
// declaration: the declaration itself, then parents before
// grandparents in declared left-to-right order. Cached after first
// use.
func (g *Graph) ResolutionOrder(id symbols.DeclID) []symbols.DeclID {
	if !id.IsValid() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return []symbols.DeclID{id}
	}
	if !n.mroValid {
		n.mro = g.computeMROLocked(id)
		n.mroValid = true
	}
	return slices.Clone(n.mro)
}

// computeMROLocked is a breadth-first walk: direct parents first,
// then their parents, each declaration listed once at its earliest
// depth.
func (g *Graph) computeMROLocked(id symbols.DeclID) []symbols.DeclID {
	order := []symbols.DeclID{id}
	seen := map[symbols.DeclID]bool{id: true}
	queue := []symbols.DeclID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n, ok := g.nodes[cur]
		if !ok {
			continue
		}
		for _, parent := range n.parents {
			if !parent.IsValid() || seen[parent] {
				continue
			}
			seen[parent] = true
			order = append(order, parent)
			queue = append(queue, parent)
		}
	}
	return order
}

// FindCommonAncestor walks a's resolution order and returns the first
// entry that is also an ancestor of (or equal to) b. This
// approximates a least upper bound; under multiple inheritance the
// result is not necessarily unique.
func (g *Graph) FindCommonAncestor(a, b symbols.DeclID) (symbols.DeclID, bool) {
	if !a.IsValid() || !b.IsValid() {
		return symbols.NoDeclID, false
	}
	for _, candidate := range g.ResolutionOrder(a) {
		if candidate == b || g.IsDerivedFrom(b, candidate) {
			return candidate, true
		}
	}
	return symbols.NoDeclID, false
}

// DetectsCycle reports whether adding parent above child would close
// an inheritance cycle. Read-only: callers that must reject cycles
// run this before AddInheritance.
func (g *Graph) DetectsCycle(child, parent symbols.DeclID) bool {
	return child == parent || g.IsDerivedFrom(parent, child)
}
