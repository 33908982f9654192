package models

// Outcome is the result bundle posted back to the challenge webhook.
// Outcome.Outcome holds [][2]int for the mutual followers problem and []int
// for the nth-level followers problem. Empty results encode as [].
type Outcome struct {
	RegNo   string `json:"regNo"`
	Outcome any    `json:"outcome"`
}

// NewPairsOutcome builds an Outcome for the mutual followers problem.
func NewPairsOutcome(regNo string, pairs [][2]int) *Outcome {
	if pairs == nil {
		pairs = make([][2]int, 0)
	}

	return &Outcome{RegNo: regNo, Outcome: pairs}
}

// NewIDsOutcome builds an Outcome for the nth-level followers problem.
func NewIDsOutcome(regNo string, ids []int) *Outcome {
	if ids == nil {
		ids = make([]int, 0)
	}

	return &Outcome{RegNo: regNo, Outcome: ids}
}

// Len returns the number of result entries.
func (o *Outcome) Len() int {
	switch v := o.Outcome.(type) {
	case [][2]int:
		return len(v)
	case []int:
		return len(v)
	default:
		return 0
	}
}
