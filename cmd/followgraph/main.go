// Command followgraph fetches a follows-graph challenge, solves it, and
// submits the outcome. It can also solve saved challenges offline and run a
// local sandbox of the challenge service.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/followgraph/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

var (
	cfg         *config.Config
	log         *logrus.Logger
	flagURL     string
	flagName    string
	flagRegNo   string
	flagEmail   string
	flagProfile string
	flagFmt     string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("followgraph version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("followgraph version %s", config.Version)
}

// profileConfig holds identity and endpoint settings for a single profile.
type profileConfig struct {
	ChallengeURL string `yaml:"challenge_url,omitempty"`
	Name         string `yaml:"name,omitempty"`
	RegNo        string `yaml:"reg_no,omitempty"`
	Email        string `yaml:"email,omitempty"`
}

// configFile is the top-level ~/.followgraph/config.yaml structure. The flat
// fields apply when no profile matches.
type configFile struct {
	profileConfig `yaml:",inline"`
	Profiles      map[string]profileConfig `yaml:"profiles,omitempty"`
	ActiveProfile string                   `yaml:"active_profile,omitempty"`
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "followgraph",
		Short:   "followgraph: solve follows-graph challenges",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}

			if err := resolveConfig(loaded, cmd); err != nil {
				return err
			}

			cfg = loaded
			log = newLogger(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagURL, "url", "", "Challenge URL (env: CHALLENGE_URL)")
	pf.StringVar(&flagName, "name", "", "Candidate name (env: CANDIDATE_NAME)")
	pf.StringVar(&flagRegNo, "reg-no", "", "Registration id; its last digit selects the problem (env: REG_NO)")
	pf.StringVar(&flagEmail, "email", "", "Candidate email (env: EMAIL)")
	pf.StringVar(&flagProfile, "profile", "", "Config file profile (default: active_profile)")
	pf.StringVar(&flagFmt, "format", "json", "Output format: json|table")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

// configPath returns ~/.followgraph/config.yaml.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".followgraph", "config.yaml"), nil
}

// loadConfigFile reads the config file. A missing file yields (nil, nil).
func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// selectProfile resolves the named profile, falling back to the active
// profile, then "default", then the flat fields.
func (f *configFile) selectProfile(name string) profileConfig {
	resolved := f.profileConfig
	if f.Profiles == nil {
		return resolved
	}

	if name == "" {
		name = f.ActiveProfile
	}
	if name == "" {
		name = "default"
	}

	if p, ok := f.Profiles[name]; ok {
		if p.ChallengeURL != "" {
			resolved.ChallengeURL = p.ChallengeURL
		}
		if p.Name != "" {
			resolved.Name = p.Name
		}
		if p.RegNo != "" {
			resolved.RegNo = p.RegNo
		}
		if p.Email != "" {
			resolved.Email = p.Email
		}
	}
	return resolved
}

// resolveConfig overlays the config file and flags onto cfg.
// Flag takes precedence, then env, then config file.
func resolveConfig(cfg *config.Config, cmd *cobra.Command) error {
	if path, err := configPath(); err == nil {
		f, err := loadConfigFile(path)
		if err != nil {
			return err
		}
		if f != nil {
			p := f.selectProfile(flagProfile)
			fillFromFile(&cfg.ChallengeURL, "CHALLENGE_URL", p.ChallengeURL)
			fillFromFile(&cfg.Name, "CANDIDATE_NAME", p.Name)
			fillFromFile(&cfg.RegNo, "REG_NO", p.RegNo)
			fillFromFile(&cfg.Email, "EMAIL", p.Email)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.ChallengeURL = flagURL
	}
	if flags.Changed("name") {
		cfg.Name = flagName
	}
	if flags.Changed("reg-no") {
		cfg.RegNo = flagRegNo
	}
	if flags.Changed("email") {
		cfg.Email = flagEmail
	}

	if flagFmt != "json" && flagFmt != "table" {
		return fmt.Errorf("--format must be json or table, got %q", flagFmt)
	}

	return cfg.Validate()
}

// fillFromFile sets *dst from the config file unless the env var is set.
func fillFromFile(dst *string, envKey, fileVal string) {
	if fileVal == "" || os.Getenv(envKey) != "" {
		return
	}
	*dst = fileVal
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// clean for command output.
func newLogger(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l
}
