package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/service"
	"github.com/persistorai/followgraph/internal/solver"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// outcomeRows renders an outcome as table rows: one pair or one id per row.
func outcomeRows(o *models.Outcome) ([]string, [][]string) {
	switch v := o.Outcome.(type) {
	case [][2]int:
		rows := make([][]string, len(v))
		for i, p := range v {
			rows[i] = []string{strconv.Itoa(p[0]), strconv.Itoa(p[1])}
		}
		return []string{"FIRST", "SECOND"}, rows
	case []int:
		rows := make([][]string, len(v))
		for i, id := range v {
			rows[i] = []string{strconv.Itoa(id)}
		}
		return []string{"ID"}, rows
	default:
		return []string{"OUTCOME"}, [][]string{{fmt.Sprint(v)}}
	}
}

// printOutcome writes a solved outcome in the selected format.
func printOutcome(p solver.Problem, o *models.Outcome) {
	if flagFmt == "table" {
		fmt.Printf("problem: %s  regNo: %s  results: %d\n\n", p, o.RegNo, o.Len())
		formatTable(outcomeRows(o))
		return
	}
	formatJSON(o)
}

// runSummary is the JSON form of a service.Report.
type runSummary struct {
	RunID      string          `json:"run_id"`
	Problem    string          `json:"problem"`
	Outcome    *models.Outcome `json:"outcome"`
	Users      int             `json:"users"`
	Edges      int             `json:"edges"`
	Submission string          `json:"submission"`
	Attempts   int             `json:"attempts"`
	StatusCode int             `json:"status_code,omitempty"`
	Response   string          `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func summarize(r *service.Report) runSummary {
	s := runSummary{
		RunID:      r.RunID,
		Problem:    r.Problem.String(),
		Outcome:    r.Outcome,
		Users:      r.Users,
		Edges:      r.Edges,
		Submission: r.Submission.Status.String(),
		Attempts:   r.Submission.Attempts,
		StatusCode: r.Submission.StatusCode,
		Response:   r.Submission.Body,
	}
	if r.Submission.Err != nil {
		s.Error = r.Submission.Err.Error()
	}
	return s
}

// printReport writes a run report in the selected format.
func printReport(r *service.Report) {
	s := summarize(r)
	if flagFmt != "table" {
		formatJSON(s)
		return
	}

	formatTable(
		[]string{"FIELD", "VALUE"},
		[][]string{
			{"run_id", s.RunID},
			{"problem", s.Problem},
			{"users", strconv.Itoa(s.Users)},
			{"edges", strconv.Itoa(s.Edges)},
			{"results", strconv.Itoa(r.Outcome.Len())},
			{"submission", s.Submission},
			{"attempts", strconv.Itoa(s.Attempts)},
			{"status_code", strconv.Itoa(s.StatusCode)},
		},
	)
}
