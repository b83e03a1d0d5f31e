package report

import (
	"regexp"
	"strings"
)

var (
	fencedHTMLRe = regexp.MustCompile("(?s)```html[ \t]*\n(.*?)```")
	fencedAnyRe  = regexp.MustCompile("(?s)```[a-zA-Z0-9]*[ \t]*\n(.*?)```")
	htmlSpanRe   = regexp.MustCompile(`(?is)(?:<!doctype html[^>]*>\s*)?<html[\s>].*</html>`)
)

// ExtractHTML pulls the embedded HTML document out of the model's free-text
// answer. Strategies are tried in priority order and the first match wins:
//
//  1. a fenced block explicitly labelled ```html
//  2. any fenced block whose body carries an HTML signature
//  3. a bare <html>...</html> span anywhere in the text
//  4. the whole text, when an HTML signature appears anywhere in it
//
// The result is trimmed. An empty result means no document was found; callers
// must treat that as a terminal extraction failure.
func ExtractHTML(text string) string {
	if m := fencedHTMLRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	for _, m := range fencedAnyRe.FindAllStringSubmatch(text, -1) {
		if hasHTMLSignature(m[1]) {
			return strings.TrimSpace(m[1])
		}
	}

	if span := htmlSpanRe.FindString(text); span != "" {
		return strings.TrimSpace(span)
	}

	if hasHTMLSignature(text) {
		return strings.TrimSpace(text)
	}

	return ""
}

// hasHTMLSignature reports whether text carries the document signature tokens.
func hasHTMLSignature(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "<!doctype html") || strings.Contains(lower, "<html")
}
