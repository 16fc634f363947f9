package formatters

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kova98/aidigest/models"
)

var literalReplacer = strings.NewReplacer(
	"## ", "<h3>",
	"---", "<hr>",
)

// Clean normalizes text to NFC, drops every "**" bold marker and prefixes each label
// with its icon. Labels are matched after normalization so decomposed accents from the
// model still match.
func Clean(text string, labels []models.Label) string {
	out := norm.NFC.String(text)
	out = strings.ReplaceAll(out, "**", "")

	for _, label := range labels {
		name := norm.NFC.String(label.Text)
		if name == "" || label.Icon == "" {
			continue
		}
		out = strings.ReplaceAll(out, name, label.Icon+" "+name)
	}

	return out
}

// Literal maps "## " to "<h3>" and "---" to "<hr>" by substring replacement.
// It is not a markdown parser: tags are never closed and markers inside words are
// replaced too.
func Literal(text string) string {
	return literalReplacer.Replace(text)
}
