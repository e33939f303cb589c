package main

import (
	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/session"
	"github.com/legisbr/legis/internal/storage"
)

var eventsStatus string

var eventsCmd = &cobra.Command{
	Use:   "events <file>",
	Short: "Show a processing log written with --events",
	Long: `Read a JSON Lines processing log written by "legis fetch --events" or
"legis shell --events" and print its entries.

Examples:
  legis events events.jsonl
  legis events events.jsonl --status failed --human`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsStatus, "status", "", "Only show entries with this status (info, in-progress, done, failed)")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	entries, err := storage.ReadAll[session.LogEntry](args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading events: %v", err)
	}

	out := make([]session.LogEntry, 0, len(entries))
	for _, e := range entries {
		if eventsStatus != "" && e.Status != eventsStatus {
			continue
		}
		out = append(out, e)
	}

	if humanOutput {
		for _, e := range out {
			if e.Citation != "" {
				outputHuman("%s [%s] %s: %s\n", e.Time.Format("15:04:05"), e.Status, e.Citation, e.Message)
				continue
			}
			outputHuman("%s [%s] %s\n", e.Time.Format("15:04:05"), e.Status, e.Message)
		}
		return nil
	}
	return outputJSON(out)
}
