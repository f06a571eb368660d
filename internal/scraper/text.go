package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText collapses all runs of whitespace (including non-breaking
// spaces and newlines left over from rendered markup) into single
// spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML flattens an HTML fragment into plain text. API sources
// sometimes hand back descriptions as markup; card snippets usually
// arrive as text already, so anything without a tag passes straight
// through CleanText.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	doc.Find("br, p, li, div").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return CleanText(doc.Text())
}
