package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/session"
)

type stubFetcher struct {
	fail map[string]bool
}

func (f stubFetcher) Fetch(_ context.Context, c legal.Citation) (*legal.Document, error) {
	if f.fail[c.ID] {
		return nil, errors.New("fetch failed: 404 Not Found")
	}
	return &legal.Document{
		Title:   "Título " + c.Number,
		Summary: "Dispõe sobre tributos.",
		Source:  "Planalto",
		URL:     "https://www.planalto.gov.br/" + c.ID,
		Content: "<html>" + c.ID + "</html>",
	}, nil
}

func newTestApp(t *testing.T, f session.Fetcher) (*App, string) {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := session.New(session.WithLogger(quiet))
	out := filepath.Join(t.TempDir(), "out.zip")
	return New(context.Background(), s, f, Options{Output: out}), out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes commands until the pass settles, feeding results back.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 100 {
			t.Fatal("pass did not finish")
		}
		msg := cmd()
		if _, ok := msg.(fetchDoneMsg); !ok {
			return
		}
		_, cmd = a.Update(msg)
	}
}

func addCitations(t *testing.T, a *App, text string) {
	t.Helper()
	a.input.SetValue(text)
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.input.Focused() {
		t.Fatal("input still focused after esc")
	}
}

func TestApp_AddProcessExport(t *testing.T) {
	a, out := newTestApp(t, stubFetcher{})
	addCitations(t, a, "LC 87/1996, Lei 9.430/1996")

	if n := len(a.session.Records()); n != 2 {
		t.Fatalf("records = %d, want 2", n)
	}
	if a.input.Value() != "" {
		t.Error("input not cleared after add")
	}

	_, cmd := a.Update(runes("p"))
	if !a.Processing() {
		t.Fatal("process key did not start a pass")
	}
	drain(t, a, cmd)
	if a.Processing() {
		t.Fatal("pass still running after all fetches")
	}

	for _, r := range a.session.Records() {
		if r.Status != legal.StatusDone {
			t.Errorf("%s status = %s", r.ID, r.Status)
		}
	}

	a.Update(runes("e"))
	if a.isError {
		t.Fatalf("export error: %s", a.message)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("archive not written: %v", err)
	}
}

func TestApp_ExportNothing(t *testing.T) {
	a, out := newTestApp(t, stubFetcher{})
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})

	a.Update(runes("e"))
	if !a.isError {
		t.Error("export with no records should report an error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("archive written with nothing to export")
	}
}

func TestApp_RetryAndRemove(t *testing.T) {
	a, _ := newTestApp(t, stubFetcher{fail: map[string]bool{"lei-complementar-87-1996": true}})
	addCitations(t, a, "LC 87/1996\nLei 9430/1996")

	_, cmd := a.Update(runes("p"))
	drain(t, a, cmd)

	// Cursor starts on the failed citation.
	a.Update(runes("r"))
	if a.isError {
		t.Fatalf("retry error: %s", a.message)
	}
	if r, _ := a.session.Get("lei-complementar-87-1996"); r.Status != legal.StatusPending {
		t.Errorf("status after retry = %s", r.Status)
	}

	a.Update(runes("j"))
	a.Update(runes("r"))
	if !a.isError {
		t.Error("retrying a done citation should report an error")
	}

	a.Update(runes("d"))
	if _, ok := a.session.Get("lei-ordinaria-9430-1996"); ok {
		t.Error("remove key did not remove the selected citation")
	}
	if a.cursor != 0 {
		t.Errorf("cursor = %d after removing last row, want 0", a.cursor)
	}
}

func TestApp_ResetBlockedWhileProcessing(t *testing.T) {
	a, _ := newTestApp(t, stubFetcher{})
	addCitations(t, a, "LC 87/1996")

	_, cmd := a.Update(runes("p"))
	a.Update(runes("R"))
	if !a.isError || len(a.session.Records()) != 1 {
		t.Error("reset should be refused during a pass")
	}

	drain(t, a, cmd)
	a.Update(runes("R"))
	if len(a.session.Records()) != 0 {
		t.Error("reset did not clear the list")
	}
}

func TestApp_AddNothingRecognized(t *testing.T) {
	a, _ := newTestApp(t, stubFetcher{})
	a.input.SetValue("nada aqui")
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if !a.isError {
		t.Error("adding unrecognized text should report an error")
	}
	if len(a.session.Records()) != 0 {
		t.Error("records added from unrecognized text")
	}
}

func TestApp_View(t *testing.T) {
	a, _ := newTestApp(t, stubFetcher{})
	addCitations(t, a, "LC 87/1996")
	_, cmd := a.Update(runes("p"))
	drain(t, a, cmd)

	view := a.View()
	if !strings.Contains(view, "Lei Complementar 87/1996") {
		t.Error("view does not list the citation")
	}
	if !strings.Contains(view, "03_Leis_Complementares/") {
		t.Error("view does not show the file tree")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.tab != TabMetadata || !strings.Contains(a.View(), "Título 87") {
		t.Error("metadata tab does not show the title")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.tab != TabLog || !strings.Contains(a.View(), "Processing finished.") {
		t.Error("log tab does not show the processing log")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestApp_CopyURL(t *testing.T) {
	var copied []string
	a, _ := newTestApp(t, stubFetcher{})
	a.opts.Copy = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	addCitations(t, a, "Lei 14.596/2023, IN 2121/2022")

	// Not fetched yet: the routed address is copied.
	a.Update(runes("c"))
	want := "https://www.planalto.gov.br/ccivil_03/_ato2023-2026/2023/lei/L14596.htm"
	if len(copied) != 1 || copied[0] != want {
		t.Errorf("copied = %v, want %q", copied, want)
	}

	// Normative instructions have no route.
	a.Update(runes("j"))
	a.Update(runes("c"))
	if !a.isError || len(copied) != 1 {
		t.Error("copying an unroutable citation should report an error")
	}
}
