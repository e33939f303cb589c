package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/export"
	"github.com/legisbr/legis/internal/layout"
	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/metrics"
	"github.com/legisbr/legis/internal/session"
	"github.com/legisbr/legis/internal/storage"
)

var (
	fetchFile        string
	fetchOutput      string
	fetchSQLiteIndex bool
	fetchMarkdown    bool
	fetchEvents      string
	fetchMetrics     string
	fetchTree        bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [text...]",
	Short: "Fetch citations and export the archive",
	Long: `Parse citations, fetch each page from the Planalto portal and write a
ZIP archive with the pages and their JSON and CSV indices.

Citations that fail are reported and left out of the archive. The command
exits with code 4 when every fetch fails.

Examples:
  legis fetch "LC 87/1996, Lei 9.430/1996"
  legis fetch -f normas.txt -o icms.zip --markdown --sqlite-index
  legis fetch "CTN" --events events.jsonl --metrics legis.prom --tree --human`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFile, "file", "f", "", "Read citations from a file (- for stdin)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Archive path (default from config)")
	fetchCmd.Flags().BoolVar(&fetchSQLiteIndex, "sqlite-index", false, "Add a SQLite copy of the index")
	fetchCmd.Flags().BoolVar(&fetchMarkdown, "markdown", false, "Add a Markdown rendition of every page")
	fetchCmd.Flags().StringVar(&fetchEvents, "events", "", "Append processing events to a JSONL file")
	fetchCmd.Flags().StringVar(&fetchMetrics, "metrics", "", "Write Prometheus metrics to a textfile")
	fetchCmd.Flags().BoolVar(&fetchTree, "tree", false, "Include the archive file tree in the output")
	rootCmd.AddCommand(fetchCmd)
}

// RecordResponse is the JSON shape of one processed citation.
type RecordResponse struct {
	CitationResponse
	Status    string `json:"status"`
	Title     string `json:"title,omitempty"`
	Summary   string `json:"summary,omitempty"`
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FetchResponse is the JSON shape of a fetch run.
type FetchResponse struct {
	Archive string           `json:"archive,omitempty"`
	Stats   session.Stats    `json:"stats"`
	Records []RecordResponse `json:"records"`
	Tree    []*layout.Node   `json:"tree,omitempty"`
}

func newRecordResponse(c legal.Citation) RecordResponse {
	r := RecordResponse{
		CitationResponse: newCitationResponse(c),
		Status:           string(c.Status),
		LocalPath:        c.LocalPath,
		Error:            c.Error,
	}
	if c.Document != nil {
		r.Title = c.Document.Title
		r.Summary = c.Document.Summary
		r.URL = c.Document.URL
	}
	return r
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustSetupLogger(cfg)
	citations := mustParseInput(args, fetchFile)

	output := fetchOutput
	if output == "" {
		output = cfg.Output
	}

	opts := []session.Option{session.WithLogger(log)}

	if fetchEvents != "" {
		events, err := storage.OpenWriter(fetchEvents)
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

	var collector *metrics.Collector
	if fetchMetrics != "" {
		collector = metrics.New()
		opts = append(opts, session.WithObserver(collector))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := session.New(opts...)
	s.Add(citations)

	stats, err := s.Process(ctx, newClient(cfg, log))
	if err != nil {
		exitWithError(ExitError, "processing: %v", err)
	}

	if collector != nil {
		if err := collector.WriteTextfile(fetchMetrics); err != nil {
			log.Warn("metrics not written", "path", fetchMetrics, "error", err)
		}
	}

	resp := FetchResponse{Stats: stats}

	if len(s.Completed()) > 0 {
		var exportOpts []export.Option
		if fetchSQLiteIndex {
			exportOpts = append(exportOpts, export.WithSQLiteIndex())
		}
		if fetchMarkdown {
			exportOpts = append(exportOpts, export.WithMarkdown())
		}
		exportOpts = append(exportOpts, export.WithLogger(log))

		err := export.WriteFile(output, func(w io.Writer) error {
			return s.Export(w, exportOpts...)
		})
		if err != nil {
			exitWithError(ExitError, "exporting archive: %v", err)
		}
		if abs, err := filepath.Abs(output); err == nil {
			output = abs
		}
		resp.Archive = output
	}

	records := s.Records()
	resp.Records = make([]RecordResponse, 0, len(records))
	for _, r := range records {
		resp.Records = append(resp.Records, newRecordResponse(r))
	}
	if fetchTree {
		resp.Tree = layout.BuildTree(layout.Build(records).Files)
	}

	if humanOutput {
		printFetchHuman(resp)
	} else if err := outputJSON(resp); err != nil {
		return err
	}

	if resp.Archive == "" {
		closeLogger()
		os.Exit(ExitAllFailed)
	}
	return nil
}

func printFetchHuman(resp FetchResponse) {
	for _, r := range resp.Records {
		if r.Status == string(legal.StatusDone) {
			outputHuman("✓ %-24s %s\n", r.Raw, truncateString(r.Title, TitleMaxLen))
			if r.Summary != "" {
				outputHuman("  %s\n", truncateString(r.Summary, SummaryMaxLen))
			}
			continue
		}
		outputHuman("✗ %-24s %s\n", r.Raw, r.Error)
	}

	outputHuman("\n%d processed, %d succeeded, %d failed, %d bytes in %s\n",
		resp.Stats.Processed, resp.Stats.Succeeded, resp.Stats.Failed, resp.Stats.Bytes, resp.Stats.Elapsed)

	if resp.Archive != "" {
		outputHuman("Archive: %s\n", resp.Archive)
	} else {
		outputHuman("No archive written: every fetch failed.\n")
	}

	if len(resp.Tree) > 0 {
		outputHuman("\n%s", layout.Render(resp.Tree))
	}
}
