// Package solver selects the challenge problem for a registration id and
// runs the matching graph algorithm over the challenge data.
package solver

import (
	"fmt"

	"github.com/persistorai/followgraph/internal/models"
)

// Problem identifies which graph algorithm a challenge requires.
type Problem int

// Problem variants.
const (
	MutualFollowers Problem = iota + 1 // odd final digit
	LevelBoundedBFS                    // even final digit
)

// String returns the metric/log label for p.
func (p Problem) String() string {
	switch p {
	case MutualFollowers:
		return "mutual_followers"
	case LevelBoundedBFS:
		return "nth_level_followers"
	default:
		return "unknown"
	}
}

// Select picks the problem from the parity of the last character of regNo,
// which must be a decimal digit.
func Select(regNo string) (Problem, error) {
	if regNo == "" {
		return 0, fmt.Errorf("empty registration id: %w", models.ErrInvalidRegistrationID)
	}

	last := regNo[len(regNo)-1]
	if last < '0' || last > '9' {
		return 0, fmt.Errorf("registration id %q: %w", regNo, models.ErrInvalidRegistrationID)
	}

	if (last-'0')%2 == 1 {
		return MutualFollowers, nil
	}

	return LevelBoundedBFS, nil
}
