package sandbox

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/solver"
)

// idBase offsets generated user ids so they never look like list positions.
const idBase = 100

// maxFollows caps the out-degree of a generated user.
const maxFollows = 4

// reciprocity is the chance that a generated follow is returned.
const reciprocity = 0.35

type mutualData struct {
	Users []models.User `json:"users"`
}

type levelData struct {
	Users levelUsers `json:"users"`
}

type levelUsers struct {
	N      int           `json:"n"`
	FindID int           `json:"findId"`
	Users  []models.User `json:"users"`
}

// generateUsers builds a random follows graph over n users. Follow lists hold
// distinct ids and never include the user itself.
func generateUsers(rng *rand.Rand, n int) []models.User {
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			ID:      idBase + i,
			Name:    fmt.Sprintf("user-%d", idBase+i),
			Follows: []int{},
		}
	}

	if n < 2 {
		return users
	}

	follows := make([]map[int]struct{}, n)
	for i := range follows {
		follows[i] = make(map[int]struct{}, maxFollows)
	}

	add := func(from, to int) {
		if from == to {
			return
		}
		if _, dup := follows[from][to]; dup {
			return
		}
		follows[from][to] = struct{}{}
		users[from].Follows = append(users[from].Follows, idBase+to)
	}

	for i := range users {
		k := rng.IntN(min(maxFollows, n-1) + 1)
		for range k {
			j := rng.IntN(n)
			add(i, j)
			if rng.Float64() < reciprocity {
				add(j, i)
			}
		}
	}

	return users
}

// generateData returns challenge data in the shape p requires.
func generateData(rng *rand.Rand, p solver.Problem, n int) (json.RawMessage, error) {
	users := generateUsers(rng, n)

	var v any
	switch p {
	case solver.MutualFollowers:
		v = mutualData{Users: users}
	case solver.LevelBoundedBFS:
		v = levelData{Users: levelUsers{
			N:      1 + rng.IntN(3),
			FindID: users[rng.IntN(len(users))].ID,
			Users:  users,
		}}
	default:
		return nil, fmt.Errorf("unknown problem %d", int(p))
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding challenge data: %w", err)
	}

	return data, nil
}
