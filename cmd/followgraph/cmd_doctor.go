package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, identity, and the challenge host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context) error {
	fmt.Println("\nfollowgraph doctor")
	fmt.Println("==================")

	results := doctorChecks(ctx)

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "ok  "
		if !r.Passed {
			mark = "FAIL"
			allPassed = false
		}

		if r.Detail != "" {
			fmt.Printf("[%s] %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("[%s] %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("       Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}

	fmt.Println("All checks passed.")
	return nil
}

func doctorChecks(ctx context.Context) []checkResult {
	var results []checkResult

	// 1. Config file (optional).
	path, err := configPath()
	switch {
	case err != nil:
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: "no home directory"})
	default:
		f, err := loadConfigFile(path)
		switch {
		case err != nil:
			results = append(results, checkResult{Name: "Config file", Passed: false, Detail: path, Hint: err.Error()})
		case f == nil:
			results = append(results, checkResult{Name: "Config file", Passed: true, Detail: "not present (optional)"})
		default:
			results = append(results, checkResult{Name: "Config file", Passed: true, Detail: path})
		}
	}

	// 2. Identity.
	if err := cfg.ValidateIdentity(); err != nil {
		results = append(results, checkResult{
			Name: "Identity", Passed: false,
			Hint: "Set --name/--reg-no/--email, CANDIDATE_NAME/REG_NO/EMAIL, or run followgraph init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Identity", Passed: true,
			Detail: fmt.Sprintf("regNo %s", cfg.RegNo),
		})
	}

	// 3. Retry policy.
	p := cfg.RetryPolicy()
	results = append(results, checkResult{
		Name: "Retry policy", Passed: true,
		Detail: fmt.Sprintf("%d attempts, base %s, timeout %s", p.Attempts, p.BaseInterval, cfg.HTTPTimeout),
	})

	// 4. Challenge host reachable.
	if err := checkReachable(ctx, cfg.ChallengeURL, 5*time.Second); err != nil {
		results = append(results, checkResult{
			Name: "Challenge host", Passed: false,
			Detail: cfg.ChallengeURL,
			Hint:   fmt.Sprintf("Check network access or --url. Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Challenge host", Passed: true, Detail: cfg.ChallengeURL,
		})
	}

	return results
}

// checkReachable resolves the URL's host and opens (then closes) a TCP
// connection to it. No HTTP request is sent, so no challenge is consumed.
func checkReachable(ctx context.Context, rawURL string, timeout time.Duration) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		return err
	}
	return conn.Close()
}
