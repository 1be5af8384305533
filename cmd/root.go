// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/community-stats/internal/config"
	"github.com/naka-gawa/community-stats/internal/domain"
)

// Exit codes distinguishing the failure classes of a run.
const (
	exitFailure       = 1
	exitConfiguration = 2
	exitConflict      = 3
)

var rootCmd = &cobra.Command{
	Use:   "community-stats",
	Short: "A CLI tool to compute community health metrics of a GitHub organization.",
	Long: `community-stats computes community health metrics (pull request and issue
throughput, time to close, contributor counts, adopters) for the repositories
of a GitHub organization and writes them as a single JSON snapshot.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err to w and returns the exit code for it.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, domain.ErrPersistenceConflict) {
		fmt.Fprintln(w, "Metrics were computed but not committed. Re-run the commit with `community-stats publish --input <snapshot file>`.")
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return exitConfiguration
	case errors.Is(err, domain.ErrPersistenceConflict):
		return exitConflict
	}
	return exitFailure
}

func init() {
	cobra.OnInitialize(initConfig)
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ./.community-stats.yaml or $HOME/.community-stats.yaml)")

	rootCmd.PersistentFlags().String("snapshot-repo", "", "Repository receiving the snapshot commit (owner/name)")
	rootCmd.PersistentFlags().String("snapshot-path", config.DefaultSnapshotPath, "Path of the snapshot file in the snapshot repository")
	rootCmd.PersistentFlags().String("snapshot-branch", "", "Branch receiving the snapshot commit (default branch if empty)")
	rootCmd.PersistentFlags().String("commit-message", config.DefaultCommitMessage, "Message of the snapshot commit")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".community-stats")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("COMMUNITY_STATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())
}

// loadConfig merges the config file into viper and returns the validated configuration.
func loadConfig() (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return config.Load(viper.GetViper())
}

// newLogger builds the logger shared by gateways and use cases.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
