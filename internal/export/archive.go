// Package export writes the legislation archive: content files plus JSON,
// CSV and optional SQLite indices.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/legisbr/legis/internal/legal"
)

type options struct {
	sqlite   bool
	markdown bool
	modTime  time.Time
	logger   *slog.Logger
}

// Option configures WriteArchive.
type Option func(*options)

// WithSQLiteIndex adds a SQLite copy of the index to the archive.
func WithSQLiteIndex() Option {
	return func(o *options) {
		o.sqlite = true
	}
}

// WithMarkdown adds a Markdown rendition next to every HTML file.
func WithMarkdown() Option {
	return func(o *options) {
		o.markdown = true
	}
}

// WithModTime sets the modification time stored on every entry.
func WithModTime(t time.Time) Option {
	return func(o *options) {
		o.modTime = t
	}
}

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WriteArchive writes a zip archive to w holding every file in files (sorted
// by path) followed by the index files built from the done records. It
// succeeds with an empty files map, writing only the indices.
func WriteArchive(w io.Writer, files map[string]string, records []legal.Citation, opts ...Option) error {
	o := options{
		modTime: time.Now(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	zw := zip.NewWriter(w)

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var conv *markdownConverter
	if o.markdown {
		conv = newMarkdownConverter()
	}

	for _, p := range paths {
		if err := writeEntry(zw, p, []byte(files[p]), o.modTime); err != nil {
			return err
		}
		if conv == nil {
			continue
		}
		text, err := conv.convert(files[p])
		if err != nil {
			// A page that does not convert still has its HTML in the archive.
			o.logger.Warn("skipping markdown rendition", "path", p, "error", err)
			continue
		}
		if err := writeEntry(zw, markdownPath(p), []byte(text), o.modTime); err != nil {
			return err
		}
	}

	entries := Entries(records)

	jsonIndex, err := JSONIndex(entries)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, JSONIndexName, jsonIndex, o.modTime); err != nil {
		return err
	}

	csvIndex, err := CSVIndex(entries)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, CSVIndexName, csvIndex, o.modTime); err != nil {
		return err
	}

	if o.sqlite {
		db, err := SQLiteIndex(entries)
		if err != nil {
			return err
		}
		if err := writeEntry(zw, SQLiteIndexName, db, o.modTime); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: closing zip: %v", ErrArchive, err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, modTime time.Time) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modTime,
	})
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrArchive, name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrArchive, name, err)
	}
	return nil
}

func markdownPath(p string) string {
	return strings.TrimSuffix(p, ".html") + ".md"
}
