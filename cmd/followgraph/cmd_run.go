package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/service"
)

func newRunCmd() *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch a challenge, solve it, and submit the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateIdentity(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWorkflow(ctx, metricsFile)
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	return cmd
}

func runWorkflow(ctx context.Context, metricsFile string) error {
	c := client.New(cfg.ChallengeURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRetryPolicy(cfg.RetryPolicy()),
		client.WithLogger(log),
	)

	report, runErr := service.NewRunner(c, cfg.Identity(), log).Run(ctx)

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer); err != nil {
			log.WithError(err).WithField("path", metricsFile).Warn("writing metrics textfile")
		}
	}

	if runErr != nil {
		return runErr
	}

	// A rejected submission is already logged by the runner and shows up in
	// the report; the exit status stays zero.
	printReport(report)
	return nil
}
