package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/legisbr/legis/internal/export"
	"github.com/legisbr/legis/internal/layout"
	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/session"
)

// maxLogLines caps the log tab.
const maxLogLines = 200

// View renders the shell.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("legis · Legislação Tributária"))
	b.WriteString("\n")

	inputPane := paneStyle
	if a.input.Focused() {
		inputPane = focusedPaneStyle
	}
	b.WriteString(inputPane.Render(a.input.View()))
	b.WriteString("\n")

	listWidth := 40
	if a.width > 0 {
		listWidth = max(a.width/3, 30)
	}
	list := paneStyle.Width(listWidth).Render(a.renderList())
	right := paneStyle.Render(a.renderTabs() + "\n\n" + a.renderTab())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, right))
	b.WriteString("\n")

	b.WriteString(statusBarStyle.Render(a.renderTotals()))
	b.WriteString("\n")
	if a.message != "" {
		if a.isError {
			b.WriteString(errorStyle.Render(a.message))
		} else {
			b.WriteString(successStyle.Render(a.message))
		}
		b.WriteString("\n")
	}

	bindings := a.keys.listHelp()
	if a.input.Focused() {
		bindings = a.keys.inputHelp()
	}
	b.WriteString(a.help.ShortHelpView(bindings))

	return appStyle.Render(b.String())
}

func statusIcon(s legal.Status) string {
	switch s {
	case legal.StatusDone:
		return successStyle.Render("✓")
	case legal.StatusFailed:
		return errorStyle.Render("✗")
	case legal.StatusInProgress:
		return progressStyle.Render("…")
	default:
		return mutedStyle.Render("•")
	}
}

func (a *App) renderList() string {
	records := a.session.Records()
	if len(records) == 0 {
		return subtitleStyle.Render("Nenhuma norma na lista.")
	}

	var lines []string
	for i, r := range records {
		label := r.Raw
		if r.Type != legal.Unknown {
			label = fmt.Sprintf("%s %s/%s", r.Type, r.Number, r.Year)
		}
		if i == a.cursor && !a.input.Focused() {
			label = selectedStyle.Render(label)
		}
		lines = append(lines, statusIcon(r.Status)+" "+label)
		if r.Status == legal.StatusFailed && r.Error != "" {
			lines = append(lines, "  "+mutedStyle.Render(r.Error))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == a.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderTab() string {
	switch a.tab {
	case TabMetadata:
		return renderMetadata(a.session.Records())
	case TabLog:
		return renderLog(a.session.Logs(), a.logLines())
	default:
		return renderTree(a.session.Records())
	}
}

// renderTree draws the archive layout without touching the session.
func renderTree(records []legal.Citation) string {
	st := layout.Build(records)
	if len(st.Files) == 0 {
		return subtitleStyle.Render("Nenhum arquivo gerado ainda.")
	}
	return layout.Render(layout.BuildTree(st.Files))
}

func renderMetadata(records []legal.Citation) string {
	entries := export.Entries(records)
	if len(entries) == 0 {
		return subtitleStyle.Render("Nenhuma norma processada.")
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s/%s\n", labelStyle.Render(e.Type), e.Number, e.Year)
		fmt.Fprintf(&b, "  %s\n", e.Title)
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(e.Summary))
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(e.URL))
	}
	return strings.TrimRight(b.String(), "\n")
}

// logLines is how many log entries fit next to the input and status bar.
func (a *App) logLines() int {
	if a.height == 0 {
		return maxLogLines
	}
	return min(max(a.height-18, 5), maxLogLines)
}

func renderLog(entries []session.LogEntry, limit int) string {
	if len(entries) == 0 {
		return subtitleStyle.Render("Log vazio.")
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	var lines []string
	for _, e := range entries {
		line := e.Time.Format("15:04:05") + " "
		if e.Citation != "" {
			line += "[" + e.Citation + "] "
		}
		line += e.Message
		switch e.Status {
		case string(legal.StatusFailed):
			line = errorStyle.Render(line)
		case string(legal.StatusDone):
			line = successStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTotals() string {
	t := a.session.Totals()
	state := "ocioso"
	if a.pass != nil {
		state = fmt.Sprintf("processando (%d na fila)", a.pass.Remaining())
	}
	return fmt.Sprintf("%d normas · %d processadas · %s · %s · %s",
		len(a.session.Records()), t.Processed, formatBytes(t.Bytes), t.Elapsed.Round(time.Millisecond), state)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
