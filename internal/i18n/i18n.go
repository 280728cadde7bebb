// Package i18n holds the user-facing strings of the CV builder for every
// supported language and picks the active language from a URL prefix or an
// Accept-Language header.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported display language code.
type Lang string

// Supported languages. Tajik comes first; it is the primary audience.
const (
	Tajik   Lang = "tg"
	Russian Lang = "ru"
	German  Lang = "de"
	English Lang = "en"
)

// Supported lists the languages in matcher preference order.
var Supported = []Lang{Tajik, Russian, German, English}

// Default is used when nothing else matches.
const Default = Tajik

var matcher = language.NewMatcher([]language.Tag{
	language.Make(string(Tajik)),
	language.Russian,
	language.German,
	language.English,
})

// Parse returns the language for a code such as "de" or "de-AT".
func Parse(code string) (Lang, bool) {
	base := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	for _, l := range Supported {
		if string(l) == base {
			return l, true
		}
	}
	return "", false
}

// FromPath extracts the language from a path prefix like "/de/lebenslauf".
func FromPath(path string) (Lang, bool) {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if len(seg) != 2 {
		return "", false
	}
	return Parse(seg)
}

// Negotiate picks the best supported language for an Accept-Language header.
func Negotiate(acceptLanguage string, fallback Lang) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// T returns the string for key in lang, falling back to German and then to
// the key itself.
func T(lang Lang, key string) string {
	if s, ok := dictionary[lang][key]; ok {
		return s
	}
	if s, ok := dictionary[German][key]; ok {
		return s
	}
	return key
}

// Dict is a bound translator for one language.
type Dict struct {
	Lang Lang
}

// For returns a translator for lang.
func For(lang Lang) Dict {
	if _, ok := dictionary[lang]; !ok {
		lang = Default
	}
	return Dict{Lang: lang}
}

// T translates key.
func (d Dict) T(key string) string {
	return T(d.Lang, key)
}
