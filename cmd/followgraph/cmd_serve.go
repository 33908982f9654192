package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/followgraph/internal/config"
	"github.com/persistorai/followgraph/internal/sandbox"
)

// shutdownTimeout bounds graceful shutdown of the sandbox server.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local sandbox of the challenge service",
		Long: "Serves POST /hiring/generateWebhook and POST /hiring/testWebhook with\n" +
			"deterministic challenges and grading. Point --url (or CHALLENGE_URL) at\n" +
			"http://127.0.0.1:3040/hiring/generateWebhook to run against it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, baseURL)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Origin used in issued webhook URLs (default: request Host)")
	return cmd
}

func serve(ctx context.Context, baseURL string) error {
	sb := sandbox.New(sandbox.Config{
		Seed:            cfg.SandboxSeed,
		Users:           cfg.SandboxUsers,
		FailChallenges:  cfg.SandboxFailChallenges,
		FailSubmissions: cfg.SandboxFailSubmissions,
		CORSOrigins:     cfg.SandboxCORSOrigins,
		BaseURL:         baseURL,
		Version:         config.Version,
	}, log)

	srv := &http.Server{
		Addr:              cfg.SandboxAddr(),
		Handler:           sb.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":             srv.Addr,
			"seed":             cfg.SandboxSeed,
			"fail_challenges":  cfg.SandboxFailChallenges,
			"fail_submissions": cfg.SandboxFailSubmissions,
		}).Info("sandbox listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down sandbox")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
