package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// JiraConfig holds the connection settings for the Jira instance.
type JiraConfig struct {
	// BaseURL is the root URL of the Jira Server/DC instance.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxRetries bounds the retry loop on rate-limited requests.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// FieldConfig names the instance-specific custom field identifiers the tools
// rely on. Run `jiratools fields <issue>` to discover them.
type FieldConfig struct {
	StoryPoints string `mapstructure:"story_points" yaml:"story_points"`
	Sprint      string `mapstructure:"sprint" yaml:"sprint"`
	EpicLink    string `mapstructure:"epic_link" yaml:"epic_link"`
}

// AppConfig is the top-level tool configuration.
type AppConfig struct {
	Jira   JiraConfig  `mapstructure:"jira" yaml:"jira"`
	Fields FieldConfig `mapstructure:"fields" yaml:"fields"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jiratools/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jiratools", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			TimeoutSec: 30,
			MaxRetries: 3,
		},
		Fields: FieldConfig{
			StoryPoints: "customfield_10502",
			Sprint:      "customfield_10505",
			EpicLink:    "customfield_10000",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("jira.timeout_sec", 30)
	v.SetDefault("jira.max_retries", 3)
	v.SetDefault("fields.story_points", "customfield_10502")
	v.SetDefault("fields.sprint", "customfield_10505")
	v.SetDefault("fields.epic_link", "customfield_10000")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("jira", cfg.Jira)
	v.Set("fields", cfg.Fields)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
