package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/community-stats/internal/domain"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commits a previously collected snapshot without recomputing it",
	Long: `Commits the JSON snapshot stored in --input to --snapshot-repo. Use it after a
persistence conflict to retry the commit without collecting the metrics again.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		input, _ := cmd.Flags().GetString("input")

		viper.Set("metrics", false)
		viper.Set("commit", true)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read snapshot %s: %w", input, err)
		}
		var snap domain.Snapshot
		if err := json.Unmarshal(content, &snap); err != nil {
			return fmt.Errorf("%s is not a snapshot: %w", input, err)
		}

		logger := newLogger(cmd)
		githubGateway, err := newGitHubGateway(cfg.Token, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		return commitSnapshot(ctx, cfg, githubGateway, content, logger)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringP("input", "i", "", "JSON snapshot written by collect --output (required)")
	_ = publishCmd.MarkFlagRequired("input")
}
