package srcutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText collapses whitespace (including non-breaking spaces) to single
// spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML reduces an HTML fragment to its visible text. Providers like
// Remotive and Lever ship descriptions as HTML; the relevance corpus wants
// plain text. Non-HTML input passes through (cleaned), as does anything
// goquery cannot parse.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	doc.Find("script, style").Remove()
	return CleanText(doc.Text())
}
