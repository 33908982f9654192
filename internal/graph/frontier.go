package graph

import (
	"context"
	"fmt"

	"github.com/persistorai/followgraph/internal/models"
)

// LevelFrontier returns the ids first reached exactly n hops from findID
// along follow edges, in the order they were discovered during the last
// expansion.
//
// The traversal is level-batched with one visited set for the whole run, so
// an id never appears at two depths. It stops after n levels or as soon as a
// level discovers nothing, in which case the result is empty even if some
// shallower level was not. n == 0 yields [findID]. Ids that are followed but
// absent from the graph are reached like any other id and expand to nothing.
//
// Returns models.ErrUnknownNode if findID is not in the graph and
// models.ErrNegativeDepth if n < 0. The context is checked between levels.
func LevelFrontier(ctx context.Context, g *FollowGraph, findID, n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("level frontier n=%d: %w", n, models.ErrNegativeDepth)
	}

	if !g.Has(findID) {
		return nil, fmt.Errorf("level frontier findId=%d: %w", findID, models.ErrUnknownNode)
	}

	visited := map[int]bool{findID: true}
	frontier := newQueue(1)
	frontier.push(findID)

	for level := 0; level < n && frontier.len() > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := newQueue(frontier.len())

		for {
			id, ok := frontier.pop()
			if !ok {
				break
			}

			follows, _ := g.Neighbors(id)
			for _, f := range follows {
				if visited[f] {
					continue
				}
				visited[f] = true
				next.push(f)
			}
		}

		frontier = next
	}

	return frontier.remaining(), nil
}
