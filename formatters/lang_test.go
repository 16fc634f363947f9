package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLang(t *testing.T) {
	assert.Equal(t, "fr", DetectLang("Voici les principales actualités de l'intelligence artificielle publiées aujourd'hui par les laboratoires de recherche.", "en"))
	assert.Equal(t, "en", DetectLang("Here are the most important artificial intelligence stories published today by research labs.", "fr"))
}

func TestDetectLang_ShortTextUsesFallback(t *testing.T) {
	assert.Equal(t, "fr", DetectLang("hello world", "fr"))
	assert.Equal(t, "en", DetectLang("", ""))
}
