package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

	// Latin letters with diacritics that show up in product and category names.
	transliterate = strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
		"ç", "c",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
		"ñ", "n",
		"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
		"ş", "s", "ß", "ss",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"ğ", "g",
		"&", " and ",
	)
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Audio" → "audio"
//   - "Home & Garden" → "home-and-garden"
//   - "Café  Équipement!" → "cafe-equipement"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = transliterate.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Matches reports whether input names the same thing as name, either
// verbatim (case-insensitive) or as its slug.
func Matches(input, name string) bool {
	if strings.EqualFold(strings.TrimSpace(input), name) {
		return true
	}
	in := Generate(input)
	return in != "" && in == Generate(name)
}
