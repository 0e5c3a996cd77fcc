// Package vocab loads the class-label vocabulary and derives the lookup
// tables shared by the classifier and the HTTP surface. A Vocabulary is
// immutable after construction.
package vocab

import (
	"bufio"
	_ "embed"
	"log/slog"
	"os"
	"strings"
)

//go:embed default_classes.txt
var defaultClasses string

// Vocabulary is an ordered set of detailed class labels plus derived
// mappings. The label at index i corresponds to model output index i.
type Vocabulary struct {
	classes  []string            // ordered, as loaded
	toSlug   map[string]string   // detailed -> slug
	toClass  map[string]string   // slug -> detailed (last write wins)
	byPlant  map[string][]string // plant -> detailed labels
	fallback bool                // true when the embedded default set is in use
}

// Load reads a class-names file, one "Plant___Condition" label per line,
// skipping blank lines. An unreadable or empty file falls back to the
// embedded default set; Load never fails.
func Load(path string) *Vocabulary {
	classes := readLines(path)
	fallback := false
	if len(classes) == 0 {
		if path != "" {
			slog.Warn("class names unavailable, using built-in set", "path", path)
		}
		classes = parseLines(defaultClasses)
		fallback = true
	}
	return build(classes, fallback)
}

// FromClasses builds a Vocabulary directly from a label list. Empty input
// falls back to the embedded default set.
func FromClasses(classes []string) *Vocabulary {
	if len(classes) == 0 {
		return build(parseLines(defaultClasses), true)
	}
	return build(classes, false)
}

func build(classes []string, fallback bool) *Vocabulary {
	v := &Vocabulary{
		classes:  classes,
		toSlug:   make(map[string]string, len(classes)),
		toClass:  make(map[string]string, len(classes)),
		byPlant:  make(map[string][]string),
		fallback: fallback,
	}
	for _, c := range classes {
		slug := NormalizeSlug(c)
		v.toSlug[c] = slug
		v.toClass[slug] = c
		plant := PlantOf(c)
		v.byPlant[plant] = append(v.byPlant[plant], c)
	}
	return v
}

// Len returns the number of classes.
func (v *Vocabulary) Len() int {
	return len(v.classes)
}

// Class returns the detailed label at index i, clamped to the valid range.
func (v *Vocabulary) Class(i int) string {
	if i < 0 {
		i = 0
	}
	if i >= len(v.classes) {
		i = len(v.classes) - 1
	}
	return v.classes[i]
}

// Classes returns a copy of the ordered label list.
func (v *Vocabulary) Classes() []string {
	out := make([]string, len(v.classes))
	copy(out, v.classes)
	return out
}

// Slug returns the normalized slug for a detailed label. Labels outside the
// vocabulary are normalized on the fly.
func (v *Vocabulary) Slug(detailed string) string {
	if s, ok := v.toSlug[detailed]; ok {
		return s
	}
	return NormalizeSlug(detailed)
}

// DetailedFor returns the detailed label for a slug, best effort.
func (v *Vocabulary) DetailedFor(slug string) (string, bool) {
	c, ok := v.toClass[NormalizeSlug(slug)]
	return c, ok
}

// SlugMap returns a copy of the detailed→slug mapping.
func (v *Vocabulary) SlugMap() map[string]string {
	out := make(map[string]string, len(v.toSlug))
	for k, val := range v.toSlug {
		out[k] = val
	}
	return out
}

// ClassMap returns a copy of the slug→detailed mapping.
func (v *Vocabulary) ClassMap() map[string]string {
	out := make(map[string]string, len(v.toClass))
	for k, val := range v.toClass {
		out[k] = val
	}
	return out
}

// ByPlant returns a copy of the plant→labels grouping.
func (v *Vocabulary) ByPlant() map[string][]string {
	out := make(map[string][]string, len(v.byPlant))
	for k, val := range v.byPlant {
		cp := make([]string, len(val))
		copy(cp, val)
		out[k] = cp
	}
	return out
}

// IsFallback reports whether the embedded default set is in use.
func (v *Vocabulary) IsFallback() bool {
	return v.fallback
}

func readLines(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if ln := strings.TrimSpace(scanner.Text()); ln != "" {
			lines = append(lines, ln)
		}
	}
	if scanner.Err() != nil {
		return nil
	}
	return lines
}

func parseLines(s string) []string {
	var lines []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
