package export

import (
	"strings"
	"unicode"

	"github.com/jonathan/lebenslauf/internal/types"
)

// Filename derives the PDF name as Lebenslauf_<lastName>_<firstName>.pdf.
// Characters other than letters and digits become underscores; empty
// name parts are skipped.
func Filename(p types.PersonalInfo) string {
	parts := []string{"Lebenslauf"}
	for _, s := range []string{p.LastName, p.FirstName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, sanitize(s))
		}
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}
