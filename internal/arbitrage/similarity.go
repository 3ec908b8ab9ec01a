package arbitrage

import (
	"regexp"
	"strconv"
	"strings"
)

// The matcher scores candidate pairs with one explicit similarity function
// over three documented inputs: normalized title tokens, the end-date delta,
// and the numeric entities extracted from each title. Strict and loose mode
// thresholds are plain comparisons against that single score.

// stopwords are tokens that carry no event identity.
var stopwords = map[string]struct{}{
	"will": {}, "would": {}, "the": {}, "a": {}, "an": {}, "by": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "be": {}, "is": {},
	"are": {}, "do": {}, "does": {}, "or": {}, "and": {}, "it": {},
	"its": {}, "this": {}, "that": {}, "than": {}, "what": {}, "any": {},
	"end": {}, "before": {},
}

// synonyms canonicalizes tokens that different exchanges use interchangeably
// for the same event.
var synonyms = map[string]string{
	"btc": "bitcoin", "eth": "ethereum", "sol": "solana",
	"hit": "above", "hits": "above", "reach": "above", "reaches": "above",
	"exceed": "above", "exceeds": "above", "over": "above",
	"surpass": "above", "surpasses": "above", "top": "above", "tops": "above",
	"under": "below", "beneath": "below",
	"jan": "january", "feb": "february", "mar": "march", "apr": "april",
	"jun": "june", "jul": "july", "aug": "august", "sep": "september",
	"sept": "september", "oct": "october", "nov": "november", "dec": "december",
	"presidential": "president", "wins": "win", "winner": "win",
}

var (
	tokenRe = regexp.MustCompile(`[a-z]+|\$?\d[\d,]*(?:\.\d+)?[kmb]?`)

	// numberRe matches a money-or-bound number with optional $ prefix,
	// thousands separators, and k/m/b magnitude suffix.
	numberRe = regexp.MustCompile(`\$?(\d[\d,]*(?:\.\d+)?)([kmb])?`)
)

// Tokenize lowercases the title, splits it into word and number tokens,
// canonicalizes numbers and synonyms, strips stopwords, and returns the
// resulting token set.
func Tokenize(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(title), -1) {
		if v, ok := canonicalNumber(tok); ok {
			set[strconv.FormatFloat(v, 'f', -1, 64)] = struct{}{}
			continue
		}
		if canon, ok := synonyms[tok]; ok {
			tok = canon
		} else if len(tok) > 3 && strings.HasSuffix(tok, "s") {
			// crude plural stem
			stem := tok[:len(tok)-1]
			if canon, ok := synonyms[stem]; ok {
				stem = canon
			}
			tok = stem
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// NumericEntities extracts the canonical numeric bounds referenced by a
// title: "$100k", "$100,000", and "100000" all yield 100000.
func NumericEntities(title string) map[float64]struct{} {
	set := make(map[float64]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(title), -1) {
		if v, ok := canonicalNumber(tok); ok {
			set[v] = struct{}{}
		}
	}
	return set
}

// canonicalNumber parses a number token, applying $-stripping, comma removal,
// and k/m/b multipliers.
func canonicalNumber(tok string) (float64, bool) {
	m := numberRe.FindStringSubmatch(tok)
	if m == nil || m[0] != tok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	case "b":
		v *= 1_000_000_000
	}
	return v, true
}

// TitleSimilarity returns the Dice coefficient of the two token sets, in
// [0,1].
func TitleSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}

// NumericAgreement classifies how the numeric entities of two titles relate.
type NumericAgreement int

const (
	// NumericNeutral: at least one title references no numbers; the signal
	// is absent rather than mismatched.
	NumericNeutral NumericAgreement = iota

	// NumericMatch: both titles reference numbers and share at least one
	// canonical bound.
	NumericMatch

	// NumericMismatch: both titles reference numbers but share none. A
	// mismatched bound vetoes the pair in strict mode regardless of text
	// similarity.
	NumericMismatch
)

// CompareNumerics classifies numeric-entity agreement between two titles.
func CompareNumerics(a, b map[float64]struct{}) NumericAgreement {
	if len(a) == 0 || len(b) == 0 {
		return NumericNeutral
	}
	for v := range a {
		if _, ok := b[v]; ok {
			return NumericMatch
		}
	}
	return NumericMismatch
}
