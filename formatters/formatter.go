// Package formatters turns raw digest text into an email body.
//
// Formatting never fails: any input string yields a body, even when the model's output
// does not follow the expected markers and the HTML comes out visually broken.
package formatters

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
	"time"

	"github.com/kova98/aidigest/enums"
	"github.com/kova98/aidigest/models"
	"github.com/kova98/aidigest/prompts"
)

//go:embed templates/digest.txt templates/digest.html
var digestTemplates embed.FS

var bodyTemplates = template.Must(template.New("digest").ParseFS(digestTemplates, "templates/*"))

type Formatter struct {
	profile  models.PromptProfile
	bodyType enums.BodyType
	mode     enums.HTMLMode
	markdown *markdownRenderer
}

func New(profile models.PromptProfile, bodyType enums.BodyType, mode enums.HTMLMode) *Formatter {
	if bodyType == enums.BodyTypeInvalid {
		bodyType = enums.BodyTypeText
	}
	if mode == enums.HTMLModeInvalid {
		mode = enums.HTMLModeLiteral
	}

	f := &Formatter{
		profile:  profile,
		bodyType: bodyType,
		mode:     mode,
	}
	if bodyType == enums.BodyTypeHTML && mode == enums.HTMLModeMarkdown {
		f.markdown = newMarkdownRenderer()
	}
	return f
}

func (f *Formatter) BodyType() enums.BodyType {
	return f.bodyType
}

// Format builds the message body for digest as of date.
func (f *Formatter) Format(digest string, date time.Time) string {
	if f.bodyType == enums.BodyTypeHTML {
		return f.html(digest, date)
	}
	return PlainText(f.profile, digest, date)
}

// PlainText wraps digest with the profile's greeting, dated intro and closing.
// The digest itself is copied unchanged.
func PlainText(profile models.PromptProfile, digest string, date time.Time) string {
	data := struct {
		Greeting string
		Intro    string
		Digest   string
		Closing  string
	}{
		Greeting: profile.Greeting,
		Intro:    prompts.Stamp(profile, profile.Intro, date),
		Digest:   digest,
		Closing:  profile.Closing,
	}

	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, "digest.txt", data); err != nil {
		return strings.Join([]string{data.Greeting, data.Intro, data.Digest, data.Closing}, "\n\n")
	}
	return buf.String()
}

// HTML cleans digest and substitutes it into the HTML skeleton using literal marker
// replacement.
func HTML(profile models.PromptProfile, digest string, date time.Time) string {
	return New(profile, enums.BodyTypeHTML, enums.HTMLModeLiteral).Format(digest, date)
}

func (f *Formatter) html(digest string, date time.Time) string {
	cleaned := Clean(digest, f.profile.Labels)

	content := Literal(cleaned)
	preWrap := true
	if f.markdown != nil {
		content = f.markdown.Render(cleaned)
		preWrap = false
	}

	data := struct {
		Lang    string
		Title   string
		Intro   string
		Closing string
		Content string
		PreWrap bool
	}{
		Lang:    DetectLang(cleaned, f.profile.Language),
		Title:   prompts.Stamp(f.profile, f.profile.Title, date),
		Intro:   prompts.Stamp(f.profile, f.profile.Intro, date),
		Closing: f.profile.Closing,
		Content: content,
		PreWrap: preWrap,
	}

	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, "digest.html", data); err != nil {
		return "<html><body>" + content + "</body></html>"
	}
	return buf.String()
}
