package formatters

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detector     lingua.LanguageDetector
	detectorOnce sync.Once
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.French, lingua.German, lingua.Spanish, lingua.Italian).
			Build()
	})
	return detector
}

// DetectLang returns the ISO 639-1 code of text's language, or fallback when the text
// is too short or ambiguous.
func DetectLang(text, fallback string) string {
	if strings.TrimSpace(fallback) == "" {
		fallback = "en"
	}
	if len(strings.Fields(text)) < 3 {
		return fallback
	}

	language, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return fallback
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
