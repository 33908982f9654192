// Package graph models a directed follows relation and runs the two
// challenge algorithms over it: mutual follower pairs and the nth-level
// follower frontier.
package graph

import "github.com/persistorai/followgraph/internal/models"

// node holds one user's follow list in first-seen order plus a set for
// constant-time edge checks.
type node struct {
	follows []int
	set     map[int]struct{}
}

// FollowGraph maps a user id to the ids that user follows. It is built once
// per challenge and never mutated afterwards.
type FollowGraph struct {
	nodes map[int]*node
	order []int
}

// Build constructs a FollowGraph from users in a single pass. Duplicate
// follow entries collapse to one edge. When a user id repeats, the later
// entry replaces the earlier follow list but keeps its original position.
func Build(users []models.User) *FollowGraph {
	g := &FollowGraph{
		nodes: make(map[int]*node, len(users)),
		order: make([]int, 0, len(users)),
	}

	for _, u := range users {
		n := &node{
			follows: make([]int, 0, len(u.Follows)),
			set:     make(map[int]struct{}, len(u.Follows)),
		}

		for _, f := range u.Follows {
			if _, dup := n.set[f]; dup {
				continue
			}
			n.set[f] = struct{}{}
			n.follows = append(n.follows, f)
		}

		if _, seen := g.nodes[u.ID]; !seen {
			g.order = append(g.order, u.ID)
		}
		g.nodes[u.ID] = n
	}

	return g
}

// Neighbors returns the ids that id follows, in input order. The second
// result is false when id is not a node of the graph, which is distinct from
// an existing node that follows nobody. Callers must not modify the slice.
func (g *FollowGraph) Neighbors(id int) ([]int, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}

	return n.follows, true
}

// HasEdge reports whether a follows b.
func (g *FollowGraph) HasEdge(a, b int) bool {
	n, ok := g.nodes[a]
	if !ok {
		return false
	}

	_, follows := n.set[b]

	return follows
}

// Has reports whether id is a node of the graph.
func (g *FollowGraph) Has(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of distinct users.
func (g *FollowGraph) Len() int {
	return len(g.nodes)
}

// IDs returns the distinct user ids in the order they were first received.
func (g *FollowGraph) IDs() []int {
	out := make([]int, len(g.order))
	copy(out, g.order)

	return out
}

// EdgeCount returns the number of distinct directed follow edges, including
// edges to ids outside the graph.
func (g *FollowGraph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.follows)
	}

	return total
}
