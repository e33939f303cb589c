// Package tui is the interactive shell: paste citations, process them
// against the portal and export the archive.
//
// The session is only touched from Update. Network fetches run inside
// tea.Cmds and come back as messages, so no locking is needed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/legisbr/legis/internal/clipboard"
	"github.com/legisbr/legis/internal/export"
	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/planalto"
	"github.com/legisbr/legis/internal/session"
)

// Tab is one of the result panes.
type Tab int

const (
	TabTree Tab = iota
	TabMetadata
	TabLog
)

var tabNames = []string{"Arquivos", "Metadados", "Log"}

func (t Tab) String() string {
	return tabNames[t]
}

// Options configures the shell.
type Options struct {
	// Output is the archive path written by the export key.
	Output string
	// ExportOptions are passed to every export.
	ExportOptions []export.Option
	// Copy writes text to the clipboard. Defaults to clipboard.Copy.
	Copy func(string) error
}

// fetchDoneMsg carries the result of one fetch back to Update.
type fetchDoneMsg struct {
	id  string
	doc *legal.Document
	err error
}

// App is the shell model.
type App struct {
	ctx     context.Context
	session *session.Session
	fetcher session.Fetcher
	opts    Options

	input textarea.Model
	help  help.Model
	keys  KeyMap

	pass    *session.Pass
	cursor  int
	tab     Tab
	message string
	isError bool

	width  int
	height int
}

// New creates the shell model around an existing session.
func New(ctx context.Context, s *session.Session, f session.Fetcher, opts Options) *App {
	input := textarea.New()
	input.Placeholder = "Cole as normas aqui (ex.: LC 87/1996, Lei 9.430/1996)"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(4)
	input.Focus()

	if opts.Copy == nil {
		opts.Copy = clipboard.Copy
	}

	return &App{
		ctx:     ctx,
		session: s,
		fetcher: f,
		opts:    opts,
		input:   input,
		help:    help.New(),
		keys:    DefaultKeys,
	}
}

// Run starts the shell on the alternate screen and blocks until it quits.
func Run(ctx context.Context, s *session.Session, f session.Fetcher, opts Options) error {
	p := tea.NewProgram(New(ctx, s, f, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

// Processing reports whether a pass is running.
func (a *App) Processing() bool {
	return a.pass != nil
}

// Update handles messages for the shell.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.SetWidth(max(msg.Width-8, 20))
		a.help.Width = msg.Width
		return a, nil

	case fetchDoneMsg:
		if a.pass == nil {
			return a, nil
		}
		a.pass.Resolve(msg.id, msg.doc, msg.err)
		return a, a.next()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.input.Focused() {
			return a.updateInput(msg)
		}
		return a.updateList(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Add):
		a.add()
		return a, nil
	case key.Matches(msg, a.keys.Leave):
		a.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Input):
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.session.Records())-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.NextTab):
		a.tab = (a.tab + 1) % Tab(len(tabNames))
	case key.Matches(msg, a.keys.Process):
		return a, a.process()
	case key.Matches(msg, a.keys.Export):
		a.export()
	case key.Matches(msg, a.keys.Remove):
		a.remove()
	case key.Matches(msg, a.keys.Retry):
		a.retry()
	case key.Matches(msg, a.keys.Copy):
		a.copyURL()
	case key.Matches(msg, a.keys.Reset):
		a.reset()
	}
	return a, nil
}

func (a *App) add() {
	citations := legal.Parse(a.input.Value())
	if len(citations) == 0 {
		a.setError("Nenhuma norma reconhecida.")
		return
	}
	n := a.session.Add(citations)
	a.input.Reset()
	a.setMessage(fmt.Sprintf("%d nova(s) norma(s) adicionada(s).", n))
}

// process begins a pass and issues the first fetch.
func (a *App) process() tea.Cmd {
	if a.pass != nil {
		return nil
	}
	pass, err := a.session.Begin()
	if err != nil {
		a.setError(err.Error())
		return nil
	}
	a.pass = pass
	a.setMessage("Processando...")
	return a.next()
}

// next hands the next citation to a fetch command, or finishes the pass.
func (a *App) next() tea.Cmd {
	c, ok := a.pass.Next()
	if !ok {
		stats := a.pass.Finish()
		a.pass = nil
		a.setMessage(fmt.Sprintf("Processamento concluído: %d ok, %d com erro.", stats.Succeeded, stats.Failed))
		return nil
	}

	ctx, f := a.ctx, a.fetcher
	return func() tea.Msg {
		doc, err := f.Fetch(ctx, c)
		return fetchDoneMsg{id: c.ID, doc: doc, err: err}
	}
}

func (a *App) export() {
	if a.pass != nil {
		a.setError("Aguarde o fim do processamento.")
		return
	}
	err := export.WriteFile(a.opts.Output, func(w io.Writer) error {
		return a.session.Export(w, a.opts.ExportOptions...)
	})
	switch {
	case errors.Is(err, session.ErrNothingToExport):
		a.setError("Nada para exportar.")
	case err != nil:
		a.setError("Erro ao exportar: " + err.Error())
	default:
		a.setMessage("Arquivo salvo em " + a.opts.Output)
	}
}

func (a *App) selected() (legal.Citation, bool) {
	records := a.session.Records()
	if a.cursor < 0 || a.cursor >= len(records) {
		return legal.Citation{}, false
	}
	return records[a.cursor], true
}

func (a *App) remove() {
	c, ok := a.selected()
	if !ok {
		return
	}
	if c.Status == legal.StatusInProgress {
		a.setError("Norma em processamento.")
		return
	}
	if err := a.session.Remove(c.ID); err != nil {
		a.setError(err.Error())
		return
	}
	if n := len(a.session.Records()); a.cursor >= n && n > 0 {
		a.cursor = n - 1
	}
	a.setMessage("Removida: " + c.Raw)
}

func (a *App) retry() {
	c, ok := a.selected()
	if !ok {
		return
	}
	if err := a.session.Retry(c.ID); err != nil {
		if errors.Is(err, session.ErrNotRetryable) {
			a.setError("Apenas normas com erro podem ser reprocessadas.")
			return
		}
		a.setError(err.Error())
		return
	}
	a.setMessage("Marcada para reprocessar: " + c.Raw)
}

// copyURL copies the portal address of the selected citation.
func (a *App) copyURL() {
	c, ok := a.selected()
	if !ok {
		return
	}

	url := ""
	if c.Document != nil {
		url = c.Document.URL
	} else if path, err := planalto.Route(c); err == nil {
		url = planalto.CanonicalURL(path)
	}
	if url == "" {
		a.setError("Sem endereço para " + c.Raw)
		return
	}

	if err := a.opts.Copy(url); err != nil {
		a.setError("Erro ao copiar: " + err.Error())
		return
	}
	a.setMessage("Copiado: " + url)
}

func (a *App) reset() {
	if a.pass != nil {
		a.setError("Aguarde o fim do processamento.")
		return
	}
	a.session.Reset()
	a.cursor = 0
	a.setMessage("Lista e resultados limpos.")
}

func (a *App) setMessage(msg string) {
	a.message, a.isError = msg, false
}

func (a *App) setError(msg string) {
	a.message, a.isError = msg, true
}
