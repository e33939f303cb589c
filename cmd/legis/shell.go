package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/config"
	"github.com/legisbr/legis/internal/export"
	"github.com/legisbr/legis/internal/session"
	"github.com/legisbr/legis/internal/storage"
	"github.com/legisbr/legis/internal/tui"
)

var (
	shellOutput      string
	shellSQLiteIndex bool
	shellMarkdown    bool
	shellEvents      string
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive collector",
	Long: `Open the interactive collector. Paste citations, add them with ctrl+s,
then press esc to work with the list:

  p  process pending citations    e  export the archive
  r  retry the selected citation  d  remove the selected citation
  R  reset list and log           tab  switch between tree, metadata and log

Logs go to the configured log file only.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVarP(&shellOutput, "output", "o", "", "Archive path (default from config)")
	shellCmd.Flags().BoolVar(&shellSQLiteIndex, "sqlite-index", false, "Add a SQLite copy of the index")
	shellCmd.Flags().BoolVar(&shellMarkdown, "markdown", false, "Add a Markdown rendition of every page")
	shellCmd.Flags().StringVar(&shellEvents, "events", "", "Append processing events to a JSONL file")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	log, closeLog := config.SetupFileLogger(cfg.LogFile, level)
	defer closeLog()

	output := shellOutput
	if output == "" {
		output = cfg.Output
	}

	opts := []session.Option{session.WithLogger(log)}
	if shellEvents != "" {
		events, err := storage.OpenWriter(shellEvents)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		defer events.Close()
		opts = append(opts, session.WithSink(func(e session.LogEntry) {
			if err := events.Write(e); err != nil {
				log.Warn("dropping event", "error", err)
			}
		}))
	}

	var exportOpts []export.Option
	if shellSQLiteIndex {
		exportOpts = append(exportOpts, export.WithSQLiteIndex())
	}
	if shellMarkdown {
		exportOpts = append(exportOpts, export.WithMarkdown())
	}
	exportOpts = append(exportOpts, export.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tui.Run(ctx, session.New(opts...), newClient(cfg, log), tui.Options{
		Output:        output,
		ExportOptions: exportOpts,
	})
}
