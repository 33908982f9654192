package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/followgraph/internal/solver"
)

func newSolveCmd() *cobra.Command {
	var (
		file    string
		problem string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a saved challenge offline and print the outcome",
		Long: "Reads a challenge response ({webhook, accessToken, data}) or a bare data\n" +
			"object from --file (or stdin with --file -) and prints the outcome that\n" +
			"would be submitted. Nothing is sent over the network.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProblem(problem, cfg.RegNo)
			if err != nil {
				return err
			}

			raw, err := readInput(file)
			if err != nil {
				return err
			}

			data, err := extractData(raw)
			if err != nil {
				return err
			}

			sol, err := solver.Solve(cmd.Context(), p, cfg.RegNo, data)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"problem": p.String(),
				"users":   sol.Users,
				"edges":   sol.Edges,
			}).Debug("challenge solved")

			printOutcome(p, sol.Outcome)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Challenge JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&problem, "problem", "", "Override problem selection: mutual|level")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// resolveProblem picks the problem from an explicit override or the
// registration id.
func resolveProblem(override, regNo string) (solver.Problem, error) {
	switch override {
	case "":
		if regNo == "" {
			return 0, errors.New("set --reg-no (or REG_NO) or pass --problem mutual|level")
		}
		return solver.Select(regNo)
	case "mutual":
		return solver.MutualFollowers, nil
	case "level":
		return solver.LevelBoundedBFS, nil
	default:
		return 0, fmt.Errorf("--problem must be mutual or level, got %q", override)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading challenge: %w", err)
	}
	return data, nil
}

// extractData returns the "data" member of a full challenge response, or the
// input itself when it is already a bare data object.
func extractData(raw []byte) (json.RawMessage, error) {
	var envelope struct {
		Webhook *string         `json:"webhook"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("challenge file is not a JSON object: %w", err)
	}

	if envelope.Webhook != nil || len(envelope.Data) > 0 {
		if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
			return nil, errors.New("challenge response has no data")
		}
		return envelope.Data, nil
	}

	return raw, nil
}
