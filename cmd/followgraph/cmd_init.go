package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/followgraph/internal/models"
)

func newInitCmd() *cobra.Command {
	var nonInteractive bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save identity settings to ~/.followgraph/config.yaml",
		Long: "Writes a profile holding name, registration id, email and challenge URL.\n" +
			"Values given as flags are used as-is; missing ones are prompted for\n" +
			"unless --yes is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profileConfig{
				ChallengeURL: cfg.ChallengeURL,
				Name:         cfg.Name,
				RegNo:        cfg.RegNo,
				Email:        cfg.Email,
			}

			if !nonInteractive {
				promptProfile(bufio.NewReader(os.Stdin), os.Stdout, &p)
			}

			id := models.Identity{Name: p.Name, RegNo: p.RegNo, Email: p.Email}
			if err := id.Validate(); err != nil {
				return err
			}

			path, err := configPath()
			if err != nil {
				return err
			}

			name := flagProfile
			if name == "" {
				name = "default"
			}

			if err := writeProfile(path, name, p); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("Config saved to %s (profile %q)\n", path, name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&nonInteractive, "yes", "y", false, "Do not prompt; use flags and environment only")
	return cmd
}

// promptProfile asks for each field, keeping the current value on empty input.
func promptProfile(r *bufio.Reader, w io.Writer, p *profileConfig) {
	ask := func(label string, dst *string) {
		fmt.Fprintf(w, "  %s [%s]: ", label, *dst)
		line, _ := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			*dst = line
		}
	}

	fmt.Fprintln(w, "\n  followgraph setup")
	fmt.Fprintln(w)
	ask("Name", &p.Name)
	ask("Registration id", &p.RegNo)
	ask("Email", &p.Email)
	ask("Challenge URL", &p.ChallengeURL)
}

// writeProfile stores p under name in the config file at path, keeping other
// profiles, and makes it the active profile.
func writeProfile(path, name string, p profileConfig) error {
	f, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	if f == nil {
		f = &configFile{}
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]profileConfig)
	}

	f.Profiles[name] = p
	f.ActiveProfile = name

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
