package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/jira-toolkit/internal/credential"
	"github.com/nhle/jira-toolkit/internal/jira"
	"github.com/nhle/jira-toolkit/internal/model"
)

var (
	rootConfigPath string
	rootVerbose    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jiratools",
		Short: "Jira workflow automation for engineering teams",
		Long: `jiratools automates recurring Jira workflows: generating scorecard
improvement tickets per team, planning epics by dependency order,
reporting epic status by sprint, measuring epic development time,
auditing subtask ownership, inspecting custom fields, and populating
remaining estimates.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c",
		model.DefaultConfigPath(), "Path to the jiratools config file")
	cmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false,
		"Enable debug logging")

	cmd.AddCommand(newScorecardCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newFieldsCmd())
	cmd.AddCommand(newEstimatesCmd())
	cmd.AddCommand(newEpictimeCmd())
	cmd.AddCommand(newSubtasksCmd())
	cmd.AddCommand(newAuthCmd())

	return cmd
}

// newLogger builds the diagnostics logger. Warnings always surface;
// --verbose adds debug detail.
func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if rootVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// loadAppConfig reads the tool configuration file.
func loadAppConfig() (*model.AppConfig, error) {
	return model.LoadConfig(rootConfigPath)
}

// saveAppConfig writes the tool configuration file back.
func saveAppConfig(cfg *model.AppConfig) error {
	return model.SaveConfig(rootConfigPath, cfg)
}

// newJiraClient builds an authenticated Jira client from the stored
// base URL and keyring token.
func newJiraClient(cfg *model.AppConfig) (*jira.Client, error) {
	if cfg.Jira.BaseURL == "" {
		return nil, fmt.Errorf(
			"no Jira base URL configured, run `jiratools auth login` first",
		)
	}

	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		return nil, fmt.Errorf(
			"no stored Jira token, run `jiratools auth login` first: %w", err,
		)
	}

	opts := []jira.Option{}
	if cfg.Jira.TimeoutSec > 0 {
		opts = append(opts, jira.WithTimeout(
			time.Duration(cfg.Jira.TimeoutSec)*time.Second))
	}
	if cfg.Jira.MaxRetries > 0 {
		opts = append(opts, jira.WithMaxRetries(cfg.Jira.MaxRetries))
	}

	return jira.NewClient(cfg.Jira.BaseURL, token, opts...), nil
}
