package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// rule is one pattern in a field's cascade.
type rule[T any] struct {
	name  string
	match func(in input) (T, bool)
}

// cascade returns the first matching rule's result.
func cascade[T any](rules []rule[T], in input) (T, string, bool) {
	for _, r := range rules {
		if out, ok := r.match(in); ok {
			return out, r.name, true
		}
	}
	var zero T
	return zero, "", false
}

// input carries one legacy value in the shapes the rules need.
type input struct {
	raw   string
	clean string
	lower string
}

func newInput(raw string) input {
	clean := strings.Join(strings.Fields(raw), " ")
	return input{raw: raw, clean: clean, lower: strings.ToLower(clean)}
}

func (in input) empty() bool { return in.clean == "" }

// tail returns the original-case text from byte offset i of the lowercase
// form. Offsets only line up when lowering kept the byte length.
func (in input) tail(i int) string {
	if len(in.clean) == len(in.lower) && i <= len(in.clean) {
		return in.clean[i:]
	}
	if i > len(in.lower) {
		return ""
	}
	return in.lower[i:]
}

// with returns a copy whose lowercase form has been replaced.
func (in input) with(lower string) input {
	in.lower = strings.Join(strings.Fields(lower), " ")
	return in
}

func number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func integer(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

var wordNumbers = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "twelve": 12,
}

// count parses digits or a small English number word.
func count(s string) float64 {
	s = strings.TrimSpace(s)
	if v, ok := wordNumbers[s]; ok {
		return v
	}
	return number(s)
}

const (
	numPattern       = `(\d+(?:\.\d+)?)`
	perLevelPattern  = `\s*(?:/|per)\s*(?:caster\s+)?level`
	perLevelsPattern = `\s*(?:/|per)\s*(\d+)\s*(?:caster\s+)?levels`
)

// compile builds an anchored pattern from parts.
func compile(parts ...string) *regexp.Regexp {
	return regexp.MustCompile(`^` + strings.Join(parts, "") + `$`)
}
