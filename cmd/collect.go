package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/community-stats/internal/config"
	"github.com/naka-gawa/community-stats/internal/gateway"
	"github.com/naka-gawa/community-stats/internal/report"
	"github.com/naka-gawa/community-stats/internal/usecase"
)

// newGitHubGateway builds the gateway used by collect and publish.
var newGitHubGateway = gateway.NewGitHubGateway

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Computes community metrics and outputs them as a JSON snapshot",
	Long: `Computes community metrics (pull request and issue throughput, time to close,
contributors, adopters) for the repositories of a GitHub organization, writes the
JSON snapshot to --output and optionally commits it to --snapshot-repo.`,
	RunE: runCollect,
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The credential is checked here, before any network call.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	if cfg.Subset {
		logger.Warn("Running in subset mode: only the first page of every listing is read")
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := newGitHubGateway(cfg.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	collector := usecase.NewCollector(githubGateway, gateway.NewAdopterFetcher(nil, logger), logger)

	snap, err := collector.Collect(ctx, cfg.CollectOptions())
	if err != nil {
		return err
	}
	content, err := usecase.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output, content, cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.Summary {
		if err := report.PrintSummary(cmd.ErrOrStderr(), snap); err != nil {
			return fmt.Errorf("failed to print summary: %w", err)
		}
	}

	if !cfg.Commit {
		return nil
	}
	return commitSnapshot(ctx, cfg, githubGateway, content, logger)
}

// commitSnapshot publishes content to the configured snapshot repository.
func commitSnapshot(ctx context.Context, cfg *config.Config, githubGateway *gateway.GitHubGateway, content []byte, logger *logrus.Logger) error {
	owner, repo, err := cfg.SnapshotOwnerRepo()
	if err != nil {
		return err
	}
	store := githubGateway.SnapshotStore(owner, repo, cfg.SnapshotBranch)
	return usecase.NewPublisher(store, logger).Publish(ctx, cfg.SnapshotPath, content, cfg.CommitMetadata())
}

// writeOutput writes content to path, or to stdout when path is "-".
func writeOutput(path string, content []byte, stdout io.Writer) error {
	if path == "" || path == config.DefaultOutput {
		_, err := stdout.Write(content)
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot to %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("org", "o", "", "Target GitHub organization name")
	collectCmd.Flags().StringSlice("repos", nil, "Repositories to collect (default: all public, non-archived repositories of --org)")
	collectCmd.Flags().Int("window-days", usecase.DefaultWindowDays, "Length of the trailing window in days")
	collectCmd.Flags().Int("per-page", config.DefaultPerPage, "Page size of every listing (1-100)")
	collectCmd.Flags().String("state", config.DefaultState, "State filter of listings (open, closed, all)")
	collectCmd.Flags().StringSlice("bot-deny-list", usecase.DefaultBotDenyList, "Automation accounts excluded from contributor counts")
	collectCmd.Flags().String("adopters-url", "", "URL of the YAML adopters document")
	collectCmd.Flags().Bool("metrics", true, "Collect repository metrics")
	collectCmd.Flags().Bool("adopters", true, "Fetch the adopter list (requires --adopters-url)")
	collectCmd.Flags().Bool("commit", false, "Commit the snapshot to --snapshot-repo")
	collectCmd.Flags().Bool("subset", false, "Read only the first page of every listing (fast validation run)")
	collectCmd.Flags().Bool("summary", false, "Print a summary table to standard error")
	collectCmd.Flags().String("output", config.DefaultOutput, "File receiving the JSON snapshot (- for standard output)")
	collectCmd.Flags().String("commit-author-name", "", "Committer name of the snapshot commit")
	collectCmd.Flags().String("commit-author-email", "", "Committer email of the snapshot commit")
	_ = viper.BindPFlags(collectCmd.Flags())
}
