// Package main provides the legis CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/config"
	"github.com/legisbr/legis/internal/planalto"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// logLevel overrides the configured log level when set
	logLevel string

	logger        = slog.Default()
	closeLogger   = func() error { return nil }
	loggerWasInit bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "legis",
	Short: "Collect Brazilian tax legislation from the Planalto portal",
	Long: `legis turns free-text citations of Brazilian legal norms into an
organized archive of the official pages.

  legis parse "LC 87/1996, Lei 9.430/1996"
  legis fetch "LC 87/1996" -o icms.zip
  legis shell

Pages are fetched from the Planalto portal, one request at a time and rate
limited. The archive holds the pages under 01_LEGISLACAO_TRIBUTARIA plus JSON
and CSV indices.

All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func init() {
	// Load .env file if present (for LEGIS_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Version = Version
}

// mustLoadConfig loads and validates the global config, exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v\n\n%s", err, config.HelpfulConfigMessage())
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustSetupLogger installs the configured logger as the default once.
func mustSetupLogger(cfg *config.GlobalConfig) *slog.Logger {
	if loggerWasInit {
		return logger
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	logger, closeLogger = config.SetupLogger(cfg.LogFile, level)
	slog.SetDefault(logger)
	loggerWasInit = true
	return logger
}

// newClient builds a portal client from the config.
func newClient(cfg *config.GlobalConfig, l *slog.Logger) *planalto.Client {
	timeout, _ := cfg.TimeoutDuration() // validated by mustLoadConfig
	return planalto.NewClient(
		planalto.WithBaseURL(cfg.BaseURL),
		planalto.WithUserAgent(cfg.UserAgent),
		planalto.WithRateLimit(cfg.RateLimit),
		planalto.WithTimeout(timeout),
		planalto.WithLogger(l),
	)
}

// readInput joins the positional arguments and, when file is set, the
// file contents (or stdin for "-") into one citation text.
func readInput(args []string, file string) (string, error) {
	parts := append([]string{}, args...)
	switch file {
	case "":
	case "-":
		data, err := readAllStdin()
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		parts = append(parts, data)
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}
