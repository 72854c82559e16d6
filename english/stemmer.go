package english

import (
	"strings"

	"github.com/trailmark/fts"
)

// StemmerLabel is the registered label for Stemmer.
const StemmerLabel = "english-stemmer"

// Stemmer reduces a token to its Porter stem (Porter, 1980). It is the
// engine's default content-bearing pipeline stage: "running", "runs",
// and "run" all index to the same term.
func Stemmer(token *fts.Token, idx int, allTokens []*fts.Token) []*fts.Token {
	s := porterStem(token.String())
	if s == token.String() {
		return []*fts.Token{token}
	}
	clone := token.Clone()
	clone.Update(func(string, fts.Metadata) string { return s })
	return []*fts.Token{clone}
}

func init() {
	fts.RegisterPipelineFunction(StemmerLabel, Stemmer)
}

func isVowel(r byte) bool {
	return r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u'
}

// isConsonant reports whether s[i] is a consonant, treating 'y' as a
// consonant only when it isn't itself preceded by a consonant.
func isConsonant(s string, i int) bool {
	c := s[i]
	if isVowel(c) {
		return false
	}
	if c != 'y' {
		return true
	}
	if i == 0 {
		return true
	}
	return !isConsonant(s, i-1)
}

// measure computes Porter's m: the number of consonant-vowel sequences
// between the start of s and the end, i.e. [C](VC)^m[V].
func measure(s string) int {
	i, n, m := 0, len(s), 0
	for i < n && isConsonant(s, i) {
		i++
	}
	for i < n {
		for i < n && !isConsonant(s, i) {
			i++
		}
		if i >= n {
			break
		}
		for i < n && isConsonant(s, i) {
			i++
		}
		m++
	}
	return m
}

func containsVowel(s string) bool {
	for i := range s {
		if !isConsonant(s, i) {
			return true
		}
	}
	return false
}

func endsWithDoubleConsonant(s string) bool {
	n := len(s)
	if n < 2 || s[n-1] != s[n-2] {
		return false
	}
	return isConsonant(s, n-1)
}

// endsCVC reports the *o rule: ends in consonant-vowel-consonant, where
// the final consonant isn't w, x, or y.
func endsCVC(s string) bool {
	n := len(s)
	if n < 3 {
		return false
	}
	if !isConsonant(s, n-3) || isConsonant(s, n-2) || !isConsonant(s, n-1) {
		return false
	}
	last := s[n-1]
	return last != 'w' && last != 'x' && last != 'y'
}

func hasSuffix(s, suffix string) bool { return strings.HasSuffix(s, suffix) }

func replaceSuffix(s, suffix, repl string) string {
	return s[:len(s)-len(suffix)] + repl
}

// stemRule is one (suffix, replacement, condition) rule. applyRules
// takes the first rule, in list order, whose suffix matches.
type stemRule struct {
	suffix string
	repl   string
	cond   func(stem string) bool
}

func applyRules(s string, rules []stemRule) string {
	for _, r := range rules {
		if !hasSuffix(s, r.suffix) {
			continue
		}
		stem := replaceSuffix(s, r.suffix, "")
		if r.cond == nil || r.cond(stem) {
			return stem + r.repl
		}
		return s
	}
	return s
}

func porterStem(word string) string {
	if len(word) <= 2 {
		return word
	}
	s := word

	s = step1a(s)
	s = step1b(s)
	s = step1c(s)
	s = step2(s)
	s = step3(s)
	s = step4(s)
	s = step5a(s)
	s = step5b(s)
	return s
}

func step1a(s string) string {
	switch {
	case hasSuffix(s, "sses"):
		return replaceSuffix(s, "sses", "ss")
	case hasSuffix(s, "ies"):
		return replaceSuffix(s, "ies", "i")
	case hasSuffix(s, "ss"):
		return s
	case hasSuffix(s, "s"):
		return replaceSuffix(s, "s", "")
	}
	return s
}

func step1b(s string) string {
	var stemmed string
	var matched bool
	switch {
	case hasSuffix(s, "eed"):
		stem := replaceSuffix(s, "eed", "")
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return s
	case hasSuffix(s, "ed"):
		stem := replaceSuffix(s, "ed", "")
		if containsVowel(stem) {
			stemmed, matched = stem, true
		}
	case hasSuffix(s, "ing"):
		stem := replaceSuffix(s, "ing", "")
		if containsVowel(stem) {
			stemmed, matched = stem, true
		}
	}
	if !matched {
		return s
	}

	switch {
	case hasSuffix(stemmed, "at"), hasSuffix(stemmed, "bl"), hasSuffix(stemmed, "iz"):
		return stemmed + "e"
	case endsWithDoubleConsonant(stemmed) && !hasSuffix(stemmed, "l") && !hasSuffix(stemmed, "s") && !hasSuffix(stemmed, "z"):
		return stemmed[:len(stemmed)-1]
	case measure(stemmed) == 1 && endsCVC(stemmed):
		return stemmed + "e"
	}
	return stemmed
}

func step1c(s string) string {
	if hasSuffix(s, "y") && len(s) > 1 {
		stem := s[:len(s)-1]
		if containsVowel(stem) {
			return stem + "i"
		}
	}
	return s
}

var step2Rules = []stemRule{
	{"ational", "ate", func(st string) bool { return measure(st) > 0 }},
	{"tional", "tion", func(st string) bool { return measure(st) > 0 }},
	{"enci", "ence", func(st string) bool { return measure(st) > 0 }},
	{"anci", "ance", func(st string) bool { return measure(st) > 0 }},
	{"izer", "ize", func(st string) bool { return measure(st) > 0 }},
	{"abli", "able", func(st string) bool { return measure(st) > 0 }},
	{"alli", "al", func(st string) bool { return measure(st) > 0 }},
	{"entli", "ent", func(st string) bool { return measure(st) > 0 }},
	{"eli", "e", func(st string) bool { return measure(st) > 0 }},
	{"ousli", "ous", func(st string) bool { return measure(st) > 0 }},
	{"ization", "ize", func(st string) bool { return measure(st) > 0 }},
	{"ation", "ate", func(st string) bool { return measure(st) > 0 }},
	{"ator", "ate", func(st string) bool { return measure(st) > 0 }},
	{"alism", "al", func(st string) bool { return measure(st) > 0 }},
	{"iveness", "ive", func(st string) bool { return measure(st) > 0 }},
	{"fulness", "ful", func(st string) bool { return measure(st) > 0 }},
	{"ousness", "ous", func(st string) bool { return measure(st) > 0 }},
	{"aliti", "al", func(st string) bool { return measure(st) > 0 }},
	{"iviti", "ive", func(st string) bool { return measure(st) > 0 }},
	{"biliti", "ble", func(st string) bool { return measure(st) > 0 }},
}

func step2(s string) string { return applyRules(s, step2Rules) }

var step3Rules = []stemRule{
	{"icate", "ic", func(st string) bool { return measure(st) > 0 }},
	{"ative", "", func(st string) bool { return measure(st) > 0 }},
	{"alize", "al", func(st string) bool { return measure(st) > 0 }},
	{"iciti", "ic", func(st string) bool { return measure(st) > 0 }},
	{"ical", "ic", func(st string) bool { return measure(st) > 0 }},
	{"ful", "", func(st string) bool { return measure(st) > 0 }},
	{"ness", "", func(st string) bool { return measure(st) > 0 }},
}

func step3(s string) string { return applyRules(s, step3Rules) }

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant", "ement",
	"ment", "ent", "ou", "ism", "ate", "iti", "ous", "ive", "ize",
	"ion", "sion", "tion",
}

func step4(s string) string {
	for _, suffix := range step4Suffixes {
		if !hasSuffix(s, suffix) {
			continue
		}
		stem := replaceSuffix(s, suffix, "")
		if suffix == "ion" || suffix == "sion" || suffix == "tion" {
			if len(stem) == 0 || (stem[len(stem)-1] != 's' && stem[len(stem)-1] != 't') {
				continue
			}
		}
		if measure(stem) > 1 {
			return stem
		}
		return s
	}
	return s
}

func step5a(s string) string {
	if !hasSuffix(s, "e") {
		return s
	}
	stem := s[:len(s)-1]
	m := measure(stem)
	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return s
}

func step5b(s string) string {
	if measure(s) > 1 && hasSuffix(s, "ll") {
		return s[:len(s)-1]
	}
	return s
}
