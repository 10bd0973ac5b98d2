// File: internal/i18n/i18n.go (complete file)

package i18n

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Language is one of the supported display languages.
type Language string

const (
	English Language = "en"
	Persian Language = "fa"

	Default = English
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

var supported = []language.Tag{language.English, language.Persian}

var matcher = language.NewMatcher(supported)

// Parse accepts a BCP 47 tag and maps it onto a supported language. Regional
// variants ("fa-IR", "en_GB") match their base language; anything else is an error.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return "", errors.Wrap(ErrUnsupportedLanguage, "empty language")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedLanguage, "%q", s)
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", errors.Wrapf(ErrUnsupportedLanguage, "%q", s)
	}
	return Language(supported[idx].String()), nil
}

// RTL reports whether text in l is written right to left.
func (l Language) RTL() bool { return l == Persian }

func (l Language) String() string { return string(l) }

// Languages lists the supported languages in display order.
func Languages() []Language { return []Language{English, Persian} }
