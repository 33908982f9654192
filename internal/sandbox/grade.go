package sandbox

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/persistorai/followgraph/internal/models"
)

// grade compares a submitted outcome with the expected one. Pair order and
// the order inside a pair do not matter; neither does the order of BFS ids.
func grade(expected *models.Outcome, submitted json.RawMessage) (bool, string, error) {
	switch want := expected.Outcome.(type) {
	case [][2]int:
		var got [][]int
		if err := json.Unmarshal(submitted, &got); err != nil {
			return false, "", fmt.Errorf("outcome must be an array of id pairs: %w", err)
		}

		pairs := make([][2]int, 0, len(got))
		for _, p := range got {
			if len(p) != 2 {
				return false, "", fmt.Errorf("outcome pair %v must have exactly two ids", p)
			}
			pairs = append(pairs, [2]int{min(p[0], p[1]), max(p[0], p[1])})
		}

		slices.SortFunc(pairs, comparePairs)
		if !slices.Equal(pairs, want) {
			return false, fmt.Sprintf("outcome does not match: expected %d pairs, got %d", len(want), len(pairs)), nil
		}

		return true, "", nil
	case []int:
		var got []int
		if err := json.Unmarshal(submitted, &got); err != nil {
			return false, "", fmt.Errorf("outcome must be an array of ids: %w", err)
		}

		wantSorted := slices.Sorted(slices.Values(want))
		slices.Sort(got)
		if !slices.Equal(got, wantSorted) {
			return false, fmt.Sprintf("outcome does not match: expected %d ids, got %d", len(want), len(got)), nil
		}

		return true, "", nil
	default:
		return false, "", fmt.Errorf("no expected outcome of type %T", want)
	}
}

func comparePairs(a, b [2]int) int {
	if c := cmp.Compare(a[0], b[0]); c != 0 {
		return c
	}
	return cmp.Compare(a[1], b[1])
}
