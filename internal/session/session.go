// Package session owns the citation list and the processing log, and drives
// citations through routing, fetching, layout and export.
//
// A Session is not safe for concurrent use. One goroutine (the CLI command or
// the terminal UI event loop) owns it and performs every mutation.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/legisbr/legis/internal/export"
	"github.com/legisbr/legis/internal/layout"
	"github.com/legisbr/legis/internal/legal"
)

// Fetcher retrieves the document for a citation.
type Fetcher interface {
	Fetch(ctx context.Context, c legal.Citation) (*legal.Document, error)
}

// Observer is notified of every resolved fetch.
type Observer interface {
	ObserveFetch(c legal.Citation, bytes int, elapsed time.Duration, err error)
}

// StatusInfo tags log entries that are not about a single citation.
const StatusInfo = "info"

// LogEntry is one line of the processing log.
type LogEntry struct {
	Seq      int       `json:"seq"`
	Time     time.Time `json:"time"`
	Citation string    `json:"citation,omitempty"`
	Message  string    `json:"message"`
	Status   string    `json:"status"`
}

// Sink receives log entries as they are appended.
type Sink func(LogEntry)

// Stats summarizes one or more processing passes.
type Stats struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Bytes     int64         `json:"bytes"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

func (s *Stats) add(other Stats) {
	s.Processed += other.Processed
	s.Succeeded += other.Succeeded
	s.Failed += other.Failed
	s.Bytes += other.Bytes
	s.Elapsed += other.Elapsed
}

// Session holds the active citations and the processing log.
type Session struct {
	records []legal.Citation
	logs    []LogEntry
	totals  Stats
	pass    *Pass

	logger   *slog.Logger
	sinks    []Sink
	observer Observer
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger mirrors log entries to a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithSink registers a receiver for every appended log entry.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithObserver registers a fetch observer, such as a metrics collector.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithClock overrides the wall clock (for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends citations whose id is not already present, in order, and
// returns how many were added.
func (s *Session) Add(citations []legal.Citation) int {
	seen := make(map[string]bool, len(s.records))
	for _, r := range s.records {
		seen[r.ID] = true
	}

	added := 0
	for _, c := range citations {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.Status = legal.StatusPending
		s.records = append(s.records, c)
		added++
	}

	if added > 0 {
		s.log("", fmt.Sprintf("Added %d new item(s) to the list.", added), StatusInfo)
	}
	return added
}

// Records returns a copy of the citation list.
func (s *Session) Records() []legal.Citation {
	out := make([]legal.Citation, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the citation with the given id.
func (s *Session) Get(id string) (legal.Citation, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return legal.Citation{}, false
}

// Completed returns the citations that finished with content.
func (s *Session) Completed() []legal.Citation {
	var out []legal.Citation
	for _, r := range s.records {
		if r.Completed() {
			out = append(out, r)
		}
	}
	return out
}

// HasPending reports whether any citation waits for processing.
func (s *Session) HasPending() bool {
	for _, r := range s.records {
		if r.Status == legal.StatusPending {
			return true
		}
	}
	return false
}

// Remove deletes a citation from the list.
func (s *Session) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

// Retry marks a failed citation as pending for the next pass.
func (s *Session) Retry(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.records[i].Status != legal.StatusFailed {
		return fmt.Errorf("%w: %s is %s", ErrNotRetryable, id, s.records[i].Status)
	}
	s.records[i].Status = legal.StatusPending
	s.records[i].Error = ""
	s.log(s.records[i].Raw, "Item marked for retry.", StatusInfo)
	return nil
}

// Reset clears citations, log and totals.
func (s *Session) Reset() {
	s.records = nil
	s.logs = nil
	s.totals = Stats{}
	s.pass = nil
	s.log("", "List and results reset.", StatusInfo)
}

// Logs returns a copy of the processing log.
func (s *Session) Logs() []LogEntry {
	out := make([]LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Totals returns the stats accumulated over every finished pass.
func (s *Session) Totals() Stats {
	return s.totals
}

// Process runs a full pass over the pending citations, one at a time.
func (s *Session) Process(ctx context.Context, f Fetcher) (Stats, error) {
	pass, err := s.Begin()
	if err != nil {
		return Stats{}, err
	}

	for {
		c, ok := pass.Next()
		if !ok {
			break
		}
		doc, err := f.Fetch(ctx, c)
		pass.Resolve(c.ID, doc, err)
	}

	return pass.Finish(), nil
}

// Structure derives the archive layout from the completed citations and
// records each citation's local path.
func (s *Session) Structure() layout.Structure {
	st := layout.Build(s.records)
	for i := range s.records {
		s.records[i].LocalPath = st.Paths[s.records[i].ID]
	}
	return st
}

// Export writes the archive of completed citations to w. It returns
// ErrNothingToExport, without writing, when no citation has content.
func (s *Session) Export(w io.Writer, opts ...export.Option) error {
	st := s.Structure()
	if len(st.Files) == 0 {
		s.log("", "No files to export.", string(legal.StatusFailed))
		return ErrNothingToExport
	}

	s.log("", "Generating ZIP archive for export...", StatusInfo)
	if err := export.WriteArchive(w, st.Files, s.records, opts...); err != nil {
		s.log("", "Error generating ZIP: "+err.Error(), string(legal.StatusFailed))
		return err
	}
	s.log("", "ZIP export finished.", string(legal.StatusDone))
	return nil
}

func (s *Session) index(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) log(citation, message, status string) {
	entry := LogEntry{
		Seq:      len(s.logs),
		Time:     s.now(),
		Citation: citation,
		Message:  message,
		Status:   status,
	}
	s.logs = append(s.logs, entry)

	level := slog.LevelInfo
	if status == string(legal.StatusFailed) {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, message, "citation", citation, "status", status)

	for _, sink := range s.sinks {
		sink(entry)
	}
}
