package scan

import "strings"

// NoTitle is the sentinel emitted when a page has no extractable title.
const NoTitle = "No title"

// ExtractTitle pulls the root page title out of an HTML body using the
// substring algorithm downstream consumers depend on: case-insensitively
// find the first "<title", skip to the next '>', and take everything up to
// the next literal "</title>". The closing-tag search is case-sensitive,
// so an uppercase closing tag yields the sentinel. Newlines inside the
// title become spaces. Missing opening or closing tags yield the NoTitle
// sentinel. This is deliberately not an HTML-tree parse; output
// compatibility matters more than handling pathological markup.
func ExtractTitle(body string) string {
	start := strings.Index(strings.ToLower(body), "<title")
	if start == -1 {
		return NoTitle
	}

	gt := strings.Index(body[start:], ">")
	if gt == -1 {
		return NoTitle
	}
	textStart := start + gt + 1

	end := strings.Index(body[textStart:], "</title>")
	if end == -1 {
		return NoTitle
	}

	title := body[textStart : textStart+end]
	title = strings.ReplaceAll(title, "\n", " ")
	title = strings.ReplaceAll(title, "\r", " ")
	return strings.TrimSpace(title)
}
