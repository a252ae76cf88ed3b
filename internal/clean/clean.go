package clean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxTextLen caps cleaned page text before it is fed to the summarizer.
const MaxTextLen = 5000

// Text converts raw page markup into bounded plain text. Script, style and
// noscript subtrees are dropped, whitespace runs collapse to single spaces
// and the result is truncated to MaxTextLen runes. Malformed markup degrades
// to best-effort extraction; the result may be empty but Text never fails.
func Text(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncate(collapse(html))
	}
	doc.Find("script, style, noscript").Remove()
	return truncate(collapse(doc.Text()))
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextLen {
		return text
	}
	return string(runes[:MaxTextLen])
}
