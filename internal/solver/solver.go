package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/persistorai/followgraph/internal/graph"
	"github.com/persistorai/followgraph/internal/models"
)

// Solution is a computed outcome plus the size of the graph it came from.
type Solution struct {
	Problem Problem
	Outcome *models.Outcome
	Users   int
	Edges   int
}

// Solve decodes data into the payload shape required by p and runs the
// matching finder. The shape is fixed by p before decoding; a payload of the
// other shape is rejected with models.ErrMalformedPayload.
func Solve(ctx context.Context, p Problem, regNo string, data json.RawMessage) (*Solution, error) {
	switch p {
	case MutualFollowers:
		var payload models.MutualPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", p, asMalformed(err))
		}

		return SolveMutual(regNo, &payload), nil
	case LevelBoundedBFS:
		var payload models.LevelPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", p, asMalformed(err))
		}

		return SolveLevel(ctx, regNo, &payload)
	default:
		return nil, fmt.Errorf("unknown problem %d", int(p))
	}
}

// SolveMutual computes the mutual follower pairs among payload users.
func SolveMutual(regNo string, payload *models.MutualPayload) *Solution {
	g := graph.Build(payload.Users)
	pairs := graph.MutualPairs(g, g.IDs())

	return &Solution{
		Problem: MutualFollowers,
		Outcome: models.NewPairsOutcome(regNo, pairs),
		Users:   g.Len(),
		Edges:   g.EdgeCount(),
	}
}

// SolveLevel computes the ids exactly payload.N hops from payload.FindID.
func SolveLevel(ctx context.Context, regNo string, payload *models.LevelPayload) (*Solution, error) {
	g := graph.Build(payload.Users)

	ids, err := graph.LevelFrontier(ctx, g, payload.FindID, payload.N)
	if err != nil {
		return nil, err
	}

	return &Solution{
		Problem: LevelBoundedBFS,
		Outcome: models.NewIDsOutcome(regNo, ids),
		Users:   g.Len(),
		Edges:   g.EdgeCount(),
	}, nil
}

// asMalformed covers syntax errors raised by encoding/json before any
// payload UnmarshalJSON runs.
func asMalformed(err error) error {
	if errors.Is(err, models.ErrMalformedPayload) {
		return err
	}

	return fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
}
