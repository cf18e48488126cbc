package scrape

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minLanguageSample is the shortest text worth classifying.
const minLanguageSample = 40

// languageSampleRunes bounds how much text the detector scans.
const languageSampleRunes = 2000

var detectedLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Swedish,
	lingua.Polish,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectedLanguages...).
			Build()
	})
	return detector
}

// DetectLanguage returns the lowercase ISO 639-1 code of text's language,
// or "" when the text is too short or ambiguous.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < minLanguageSample {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(truncateRunes(text, languageSampleRunes))
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
