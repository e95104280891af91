package content

import (
	"golang.org/x/text/language"

	"github.com/rampantspark/giftdraw/internal/santa"
)

// Language is a supported page language.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// French comes first so it wins when nothing matches.
var (
	supported = []Language{LanguageFrench, LanguageEnglish}
	matcher   = language.NewMatcher([]language.Tag{language.French, language.English})
)

// MatchLanguage maps a BCP 47 tag or Accept-Language value ("fr-CA",
// "en-GB,en;q=0.8") to the closest supported language.
func MatchLanguage(tag string) Language {
	_, index := language.MatchStrings(matcher, tag)
	return supported[index]
}

// Greeting returns the salutation that opens p's page.
//
// French greetings follow the participant's gender: "Cher" for male,
// "Chère" for female, and "Bonjour" when unspecified.
func Greeting(p santa.Participant, lang Language) string {
	if lang == LanguageEnglish {
		return "Dear " + p.Name
	}
	switch p.Gender {
	case santa.GenderMale:
		return "Cher " + p.Name
	case santa.GenderFemale:
		return "Chère " + p.Name
	default:
		return "Bonjour " + p.Name
	}
}
