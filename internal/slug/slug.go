// Package slug generates URL-friendly slugs from entity names and titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	accentReplacer = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make creates a URL-friendly slug from the given string.
// Example: "Crônicas de Ficção" -> "cronicas-de-ficcao"
func Make(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = accentReplacer.Replace(result)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
