package graph

import (
	"cmp"
	"slices"
)

// MutualPairs returns every unordered pair {a, b} with a != b where a follows
// b and b follows a, as (min, max) tuples. Only ids listed in ids are
// considered, so a reciprocal edge to an unlisted id never qualifies. Each
// pair appears once. The result is sorted by first element, then second.
//
// The scan walks each user's follow list once, so it runs in O(V+E) and
// yields the same set as testing every pair of listed users.
func MutualPairs(g *FollowGraph, ids []int) [][2]int {
	listed := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		listed[id] = struct{}{}
	}

	pairs := make([][2]int, 0)
	seen := make(map[[2]int]struct{})

	for _, a := range ids {
		follows, ok := g.Neighbors(a)
		if !ok {
			continue
		}

		for _, b := range follows {
			if a == b {
				continue
			}

			if _, ok := listed[b]; !ok || !g.HasEdge(b, a) {
				continue
			}

			pair := [2]int{min(a, b), max(a, b)}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}
			pairs = append(pairs, pair)
		}
	}

	slices.SortStableFunc(pairs, func(x, y [2]int) int {
		if c := cmp.Compare(x[0], y[0]); c != 0 {
			return c
		}
		return cmp.Compare(x[1], y[1])
	})

	return pairs
}
