package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// builtinAliases maps well-known neighborhood and metro-area phrasings to a
// canonical location string. Directory pages frequently use the local name
// ("Georgetown pediatrician") where the request says "Washington DC"; both
// must produce the same query scope. Config aliases extend this table.
var builtinAliases = map[string]string{
	"washington d.c.":  "Washington DC",
	"washington, d.c.": "Washington DC",
	"washington, dc":   "Washington DC",
	"district of columbia": "Washington DC",
	"georgetown":       "Washington DC",
	"capitol hill":     "Washington DC",
	"dupont circle":    "Washington DC",
	"foggy bottom":     "Washington DC",
	"adams morgan":     "Washington DC",
	"nyc":              "New York City",
	"manhattan":        "New York City",
	"brooklyn":         "New York City",
	"queens":           "New York City",
	"the bronx":        "New York City",
	"staten island":    "New York City",
	"la":               "Los Angeles",
	"hollywood":        "Los Angeles",
	"santa monica":     "Los Angeles",
	"sf":               "San Francisco",
	"the mission":      "San Francisco",
	"south side":       "Chicago",
	"the loop":         "Chicago",
}

var foldTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// fold lowercases, strips diacritics, and collapses whitespace for alias
// table lookup.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLocation canonicalizes a free-text location using the builtin
// alias table extended with extra aliases (config-supplied, keys folded the
// same way). Unrecognized locations pass through trimmed, with each word's
// original casing kept.
func NormalizeLocation(location string, extra map[string]string) string {
	key := fold(location)
	if key == "" {
		return ""
	}
	for k, v := range extra {
		if fold(k) == key {
			return v
		}
	}
	if canonical, ok := builtinAliases[key]; ok {
		return canonical
	}
	return strings.Join(strings.Fields(strings.TrimSpace(location)), " ")
}
