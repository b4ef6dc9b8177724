package textutil

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes drops articles and short connectives that carry no signal
// when comparing spell descriptions.
const minTokenRunes = 3

// Fingerprint is the term-frequency vector of a text, used to spot spells
// whose descriptions are near duplicates under different hashes.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint counts the tokens of text. It returns nil when text has no
// token of at least three runes.
func NewFingerprint(text string) *Fingerprint {
	fp := &Fingerprint{tokens: make(map[string]float64)}
	var sumSquares float64
	for _, token := range Tokenize(text) {
		// (c+1)^2 - c^2
		sumSquares += 2*fp.tokens[token] + 1
		fp.tokens[token]++
	}
	if len(fp.tokens) == 0 {
		return nil
	}
	fp.norm = math.Sqrt(sumSquares)
	return fp
}

// Tokenize folds text to lower-case NFC and splits it on anything that is
// not a letter or digit, keeping tokens of at least three runes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(Collapse(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenCount reports how many distinct tokens f holds.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}
