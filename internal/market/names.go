package market

import (
	"regexp"
	"strings"
)

var spaces = regexp.MustCompile(`\s+`)

// StripFighterNames remove os nomes dos lutadores do rótulo do mercado
// ("Total Rounds by John Doe" -> "Total Rounds"). Nomes vazios ou "Unknown" são
// ignorados e, se sobrar menos de 3 caracteres, o rótulo original é mantido.
func StripFighterNames(label string, names ...string) string {
	clean := label
	for _, name := range names {
		if name == "" || name == Unknown {
			continue
		}
		q := regexp.QuoteMeta(name)
		patterns := []*regexp.Regexp{
			regexp.MustCompile(`(?i)\s*by\s+` + q + `\s*`),
			regexp.MustCompile(`(?i)\s*` + q + `\s+to\s*`),
			regexp.MustCompile(`(?i)\s*` + q + `\s*`),
		}
		for _, p := range patterns {
			clean = strings.TrimSpace(p.ReplaceAllString(clean, " "))
		}
	}

	clean = strings.TrimSpace(spaces.ReplaceAllString(clean, " "))
	if len(clean) < 3 {
		return label
	}
	return clean
}
