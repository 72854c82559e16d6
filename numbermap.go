package fts

import (
	"math"
	"sort"
	"strconv"
)

// Comparator is a relational operator recognized by NumberMap.Match and
// the query language's cmp production.
type Comparator string

const (
	ComparatorGT  Comparator = ">"
	ComparatorGTE Comparator = ">="
	ComparatorLT  Comparator = "<"
	ComparatorLTE Comparator = "<="
)

// numberEntry is one distinct numeric value produced by a numeric field,
// with every vocabulary token string that value parsed from.
type numberEntry struct {
	value  float64
	tokens []string
}

// NumberMap is a sorted sequence of (value, tokens) pairs built from
// every term in the inverted index whose surface form parses as a
// finite number (spec.md §9: numeric detection is purely syntactic,
// independent of tokenizer/field metadata).
type NumberMap struct {
	entries []numberEntry
}

// NewNumberMap scans terms (the inverted index's term set) and groups
// the ones that parse as finite numbers by value, ascending.
func NewNumberMap(terms []string) *NumberMap {
	byValue := map[float64][]string{}
	for _, term := range terms {
		v, ok := parseFiniteNumber(term)
		if !ok {
			continue
		}
		byValue[v] = append(byValue[v], term)
	}

	nm := &NumberMap{entries: make([]numberEntry, 0, len(byValue))}
	for v, toks := range byValue {
		sort.Strings(toks)
		nm.entries = append(nm.entries, numberEntry{value: v, tokens: toks})
	}
	sort.Slice(nm.entries, func(i, j int) bool { return nm.entries[i].value < nm.entries[j].value })
	return nm
}

func parseFiniteNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// searchValue returns the index of x among entry values (sort.Search
// semantics: the first index whose value is >= x), and whether that
// index is an exact match.
func (nm *NumberMap) searchValue(x float64) (idx int, present bool) {
	idx = sort.Search(len(nm.entries), func(i int) bool { return nm.entries[i].value >= x })
	present = idx < len(nm.entries) && nm.entries[idx].value == x
	return
}

// Match implements matchComparator: binary-search x among entry values
// and resolve the half-open [start, end) range of entries the operator
// selects, per spec.md §4.6.
func (nm *NumberMap) Match(op Comparator, x float64) *TokenSet {
	i, present := nm.searchValue(x)
	start, end := 0, len(nm.entries)

	switch op {
	case ComparatorGT:
		start = i
		if present {
			start++
		}
	case ComparatorGTE:
		start = i
	case ComparatorLT:
		end = i
	case ComparatorLTE:
		end = i
		if present {
			end++
		}
	}

	return nm.tokenSetForRange(start, end)
}

// Range implements matchRange: lo/hi of "*" are unbounded; lo resolves
// to the first index >= lo, hi to the first index > hi.
func (nm *NumberMap) Range(lo, hi *float64) *TokenSet {
	start := 0
	if lo != nil {
		start, _ = nm.searchValue(*lo)
	}
	end := len(nm.entries)
	if hi != nil {
		i, present := nm.searchValue(*hi)
		if present {
			end = i + 1
		} else {
			end = i
		}
	}
	return nm.tokenSetForRange(start, end)
}

func (nm *NumberMap) tokenSetForRange(start, end int) *TokenSet {
	if start < 0 {
		start = 0
	}
	if end > len(nm.entries) {
		end = len(nm.entries)
	}
	if start >= end {
		empty, _ := TokenSetFromArray(nil)
		return empty
	}

	var tokens []string
	for i := start; i < end; i++ {
		tokens = append(tokens, nm.entries[i].tokens...)
	}
	sort.Strings(tokens)
	ts, err := TokenSetFromArray(tokens)
	if err != nil {
		// tokens are deduplicated vocabulary strings and sorted above;
		// this can only fail on a builder bug.
		panic(err)
	}
	return ts
}
