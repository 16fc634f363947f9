package formatters

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const maxHeadingLevel = 6

// headingDemoter lowers every heading by one level so "## 1. Title" renders as <h3>,
// matching the literal mode's output for the expected digest shape.
type headingDemoter struct{}

func (headingDemoter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level < maxHeadingLevel {
			h.Level++
		}
		return ast.WalkContinue, nil
	})
}

type markdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{
		md: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithASTTransformers(util.Prioritized(headingDemoter{}, 100)),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML. Conversion errors fall back to the
// escaped source so the body is never empty.
func (r *markdownRenderer) Render(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}
	return r.policy.Sanitize(buf.String())
}
