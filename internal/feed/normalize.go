package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	breakTagRe  = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
	wsRunsRe    = regexp.MustCompile(`\s+`)
)

// RawText flattens a markup fragment into line-oriented plain text.
// Break-equivalent tags become newlines, all other markup is stripped,
// every line is trimmed and runs of 3+ newlines collapse to a blank line.
func RawText(markup string) string {
	if markup == "" {
		return ""
	}
	withBreaks := breakTagRe.ReplaceAllString(markup, "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + withBreaks + "</div>"))
	if err != nil {
		return ""
	}
	text := strings.ReplaceAll(doc.Text(), "\r", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimSpace(blankRunsRe.ReplaceAllString(joined, "\n\n"))
}

// FlatText collapses all whitespace runs in text to single spaces.
func FlatText(text string) string {
	return strings.TrimSpace(wsRunsRe.ReplaceAllString(text, " "))
}
