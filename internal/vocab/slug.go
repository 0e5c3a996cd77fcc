package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeSlug converts a detailed PlantVillage-style label or a loosely
// formatted slug into the canonical lookup key: lowercase, accent-free,
// single-underscore separated. Accepts inputs like "Tomato___Late_blight",
// "Tomato - Late blight", or "tomato__late_blight". Idempotent.
func NormalizeSlug(s string) string {
	if s == "" {
		return ""
	}
	s = stripAccents(strings.ToLower(strings.TrimSpace(s)))
	s = strings.ReplaceAll(s, "___", "_")
	s = strings.ReplaceAll(s, " - ", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// stripAccents removes combining diacritical marks after NFD normalization,
// so labels like "Pepper,_bell___Jalapeño" key consistently.
func stripAccents(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PlantOf extracts the plant name from a detailed label: the substring before
// the first "___" separator, then " - ", then the first "_"-delimited token.
func PlantOf(detailed string) string {
	if plant, _, ok := strings.Cut(detailed, "___"); ok {
		return plant
	}
	if plant, _, ok := strings.Cut(detailed, " - "); ok {
		return plant
	}
	plant, _, _ := strings.Cut(detailed, "_")
	return plant
}
