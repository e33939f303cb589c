package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/config"
)

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults and environment overrides.

The file lives at $XDG_CONFIG_HOME/legis/config.yml (default
~/.config/legis/config.yml). Keys:
  base_url    Portal origin (default https://www.planalto.gov.br)
  user_agent  User-Agent header
  rate_limit  Requests per second (negative disables the limit)
  timeout     HTTP timeout, e.g. 30s (0 for none)
  output      Default archive path
  log_file    JSON log file
  log_level   debug, info, warn or error

Environment: LEGIS_BASE_URL, LEGIS_USER_AGENT, LEGIS_LOG_LEVEL,
LEGIS_LOG_FILE and LEGIS_OUTPUT override the file.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

// ConfigPathResponse is the JSON shape of config path.
type ConfigPathResponse struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if humanOutput {
		outputHuman("base_url:   %s\n", cfg.BaseURL)
		outputHuman("user_agent: %s\n", cfg.UserAgent)
		outputHuman("rate_limit: %g\n", cfg.RateLimit)
		outputHuman("timeout:    %s\n", cfg.Timeout)
		outputHuman("output:     %s\n", cfg.Output)
		outputHuman("log_file:   %s\n", cfg.LogFile)
		outputHuman("log_level:  %s\n", cfg.LogLevel)
		return nil
	}
	return outputJSON(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()
	_, err := os.Stat(path)
	resp := ConfigPathResponse{Path: path, Exists: err == nil}

	if humanOutput {
		outputHuman("%s\n", path)
		return nil
	}
	return outputJSON(resp)
}
