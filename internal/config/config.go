// Package config resolves the run configuration from flags, environment and
// an optional config file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/naka-gawa/community-stats/internal/domain"
	"github.com/naka-gawa/community-stats/internal/usecase"
)

// Defaults applied when a key is set nowhere else.
const (
	DefaultPerPage       = 100
	DefaultState         = "all"
	DefaultSnapshotPath  = "community-stats.json"
	DefaultCommitMessage = "chore: update community stats"
	DefaultOutput        = "-"
)

var validStates = []string{"open", "closed", "all"}

// Config is the validated configuration of one run.
type Config struct {
	Token string `mapstructure:"token"`

	Org         string   `mapstructure:"org"`
	Repos       []string `mapstructure:"repos"`
	WindowDays  int      `mapstructure:"window-days"`
	PerPage     int      `mapstructure:"per-page"`
	State       string   `mapstructure:"state"`
	BotDenyList []string `mapstructure:"bot-deny-list"`
	AdoptersURL string   `mapstructure:"adopters-url"`

	SnapshotRepo      string `mapstructure:"snapshot-repo"`
	SnapshotPath      string `mapstructure:"snapshot-path"`
	SnapshotBranch    string `mapstructure:"snapshot-branch"`
	CommitMessage     string `mapstructure:"commit-message"`
	CommitAuthorName  string `mapstructure:"commit-author-name"`
	CommitAuthorEmail string `mapstructure:"commit-author-email"`

	Metrics  bool   `mapstructure:"metrics"`
	Adopters bool   `mapstructure:"adopters"`
	Commit   bool   `mapstructure:"commit"`
	Subset   bool   `mapstructure:"subset"`
	Summary  bool   `mapstructure:"summary"`
	Output   string `mapstructure:"output"`
}

// SetDefaults registers default values and binds the token to GITHUB_TOKEN.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("window-days", usecase.DefaultWindowDays)
	v.SetDefault("per-page", DefaultPerPage)
	v.SetDefault("state", DefaultState)
	v.SetDefault("bot-deny-list", usecase.DefaultBotDenyList)
	v.SetDefault("snapshot-path", DefaultSnapshotPath)
	v.SetDefault("commit-message", DefaultCommitMessage)
	v.SetDefault("metrics", true)
	v.SetDefault("adopters", true)
	v.SetDefault("output", DefaultOutput)
	_ = v.BindEnv("token", "GITHUB_TOKEN")
}

// Load unmarshals all resolved values from v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	// The adopter fetch is on by default but has nothing to fetch without a URL.
	if cfg.AdoptersURL == "" {
		cfg.Adopters = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration. A missing token is reported first so the
// run aborts before any network call.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: GITHUB_TOKEN environment variable is not set", domain.ErrMissingCredential)
	}
	if c.Metrics && c.Org == "" {
		return errors.New("org is required to collect metrics")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window-days must be positive, got %d", c.WindowDays)
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("per-page must be between 1 and 100, got %d", c.PerPage)
	}
	if !slices.Contains(validStates, c.State) {
		return fmt.Errorf("state must be one of %s, got %q", strings.Join(validStates, ", "), c.State)
	}
	if c.Commit {
		if _, _, err := c.SnapshotOwnerRepo(); err != nil {
			return err
		}
		if c.SnapshotPath == "" {
			return errors.New("snapshot-path is required to commit")
		}
	}
	return nil
}

// SnapshotOwnerRepo splits snapshot-repo ("owner/name").
func (c *Config) SnapshotOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.SnapshotRepo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("snapshot-repo must be in owner/name form, got %q", c.SnapshotRepo)
	}
	return owner, repo, nil
}

// CollectOptions translates the configuration into use case options.
func (c *Config) CollectOptions() usecase.CollectOptions {
	return usecase.CollectOptions{
		Org:   c.Org,
		Repos: c.Repos,
		Filter: domain.ListFilter{
			State:     c.State,
			Sort:      "created",
			Direction: "asc",
			PerPage:   c.PerPage,
		},
		WindowDays:  c.WindowDays,
		BotDenyList: c.BotDenyList,
		Metrics:     c.Metrics,
		Adopters:    c.Adopters,
		AdoptersURL: c.AdoptersURL,
		Subset:      c.Subset,
	}
}

// CommitMetadata returns the metadata of the snapshot commit.
func (c *Config) CommitMetadata() domain.CommitMetadata {
	return domain.CommitMetadata{
		Message:     c.CommitMessage,
		AuthorName:  c.CommitAuthorName,
		AuthorEmail: c.CommitAuthorEmail,
	}
}
