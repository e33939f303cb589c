package planalto

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Placeholders stored when a page lacks a title or a summary.
const (
	TitleNotFound   = "Título não encontrado"
	SummaryNotFound = "Ementa não encontrada."
)

// providesForRe matches the opening of a norm's summary ("Dispõe sobre ...").
var providesForRe = regexp.MustCompile(`(?i)disp[õo]e\s+sobre`)

// Page holds the fields extracted from a norm's HTML page.
type Page struct {
	Title   string
	Summary string
}

// Extract pulls the title and the summary ("ementa") out of a portal page.
// The summary is the first p.ementa, or else the first paragraph that reads
// "dispõe sobre". Extraction is best effort and never fails.
func Extract(markup string) Page {
	page := Page{Title: TitleNotFound, Summary: SummaryNotFound}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return page
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		page.Title = title
	}

	summary := doc.Find("p.ementa").First()
	if summary.Length() == 0 {
		doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if providesForRe.MatchString(p.Text()) {
				summary = p
				return false
			}
			return true
		})
	}
	if text := collapseSpace(summary.Text()); text != "" {
		page.Summary = text
	}

	return page
}

// collapseSpace trims s and folds every whitespace run into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
