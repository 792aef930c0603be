package newsutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxCleanContentChars caps the normalized article text stored per row.
const MaxCleanContentChars = 400

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanStats counts what normalization removed, for log lines.
type CleanStats struct {
	HTMLEntities    int
	HTMLTags        int
	WhitespaceFixes int
}

// CleanText decodes HTML entities, strips markup and collapses whitespace
// runs. Malformed markup degrades to entity decoding only.
func CleanText(s string) (string, CleanStats) {
	var stats CleanStats

	stats.HTMLEntities = strings.Count(s, "&")
	decoded := html.UnescapeString(s)

	text := decoded
	if strings.ContainsAny(decoded, "<>") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
		if err == nil {
			stats.HTMLTags = doc.Find("body *").Length()
			text = doc.Text()
		}
	}

	stats.WhitespaceFixes = len(whitespaceRe.FindAllString(text, -1))
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), stats
}

// CleanArticle joins the cleaned title and description and truncates the
// result to MaxCleanContentChars without splitting a multi-byte rune.
func CleanArticle(title, description string) (string, CleanStats) {
	cleanTitle, titleStats := CleanText(title)
	cleanDesc, descStats := CleanText(description)

	stats := CleanStats{
		HTMLEntities:    titleStats.HTMLEntities + descStats.HTMLEntities,
		HTMLTags:        titleStats.HTMLTags + descStats.HTMLTags,
		WhitespaceFixes: titleStats.WhitespaceFixes + descStats.WhitespaceFixes,
	}

	var combined string
	switch {
	case cleanTitle != "" && cleanDesc != "":
		combined = cleanTitle + ". " + cleanDesc
	case cleanTitle != "":
		combined = cleanTitle
	default:
		combined = cleanDesc
	}

	return TruncateRunes(combined, MaxCleanContentChars), stats
}

// TruncateRunes cuts s to at most max runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
