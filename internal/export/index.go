package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/legisbr/legis/internal/legal"
)

// Index file names at the archive root.
const (
	JSONIndexName   = "legislacao_index.json"
	CSVIndexName    = "legislacao_index.csv"
	SQLiteIndexName = "legislacao_index.db"
)

// csvHeader is the column order of the CSV index.
var csvHeader = []string{"tipo", "numero", "ano", "titulo", "ementa", "fonte", "url", "arquivo_local"}

// Entry is one row of the archive index.
type Entry struct {
	Type      string `json:"tipo"`
	Number    string `json:"numero"`
	Year      string `json:"ano"`
	Title     string `json:"titulo"`
	Summary   string `json:"ementa"`
	Source    string `json:"fonte"`
	URL       string `json:"url"`
	LocalPath string `json:"arquivo_local"`
}

// Entries builds index rows for the done records, in list order.
func Entries(records []legal.Citation) []Entry {
	entries := []Entry{}
	for _, r := range records {
		if r.Status != legal.StatusDone {
			continue
		}
		e := Entry{
			Type:      r.Type.String(),
			Number:    r.Number,
			Year:      r.Year,
			LocalPath: r.LocalPath,
		}
		if r.Document != nil {
			e.Title = r.Document.Title
			e.Summary = r.Document.Summary
			e.Source = r.Document.Source
			e.URL = r.Document.URL
		}
		entries = append(entries, e)
	}
	return entries
}

func (e Entry) row() []string {
	return []string{e.Type, e.Number, e.Year, e.Title, e.Summary, e.Source, e.URL, e.LocalPath}
}

// JSONIndex renders entries as a pretty-printed JSON array.
func JSONIndex(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encoding JSON index: %v", ErrArchive, err)
	}
	return data, nil
}

// CSVIndex renders entries as CSV with a header row. The header is written
// even when there are no entries.
func CSVIndex(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: writing CSV header: %v", ErrArchive, err)
	}
	for _, e := range entries {
		if err := w.Write(e.row()); err != nil {
			return nil, fmt.Errorf("%w: writing CSV row: %v", ErrArchive, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: flushing CSV index: %v", ErrArchive, err)
	}
	return buf.Bytes(), nil
}
