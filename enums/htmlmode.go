package enums

import "strings"

type HTMLMode string

const (
	HTMLModeInvalid HTMLMode = ""

	// HTMLModeLiteral maps markdown markers to tags with plain substring replacement.
	// For example, "## " becomes "<h3>" and "---" becomes "<hr>" wherever they appear,
	// without closing tags.
	HTMLModeLiteral HTMLMode = "literal"

	// HTMLModeMarkdown renders the digest with a markdown parser and sanitizes the result.
	HTMLModeMarkdown HTMLMode = "markdown"
)

func ParseHTMLMode(s string) HTMLMode {
	switch HTMLMode(strings.ToLower(strings.TrimSpace(s))) {
	case HTMLModeLiteral:
		return HTMLModeLiteral
	case HTMLModeMarkdown:
		return HTMLModeMarkdown
	default:
		return HTMLModeInvalid
	}
}
