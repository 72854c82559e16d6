package fts

import "sort"

// Result is one scored document produced by Index.Query/Search.
type Result struct {
	Ref       string
	Score     float64
	MatchData *MatchData
}

// Index is the immutable, queryable structure a Builder produces: BM25
// field vectors, the vocabulary TokenSet, the NumberMap, and the
// pipeline/tokenizer configuration queries are resolved against. Once
// built, an Index is read-only and safe for concurrent callers
// (spec.md §5); a Query produced by Query is scoped to a single call.
type Index struct {
	fields            []string
	fieldTypes        map[string]FieldType
	invertedIndex     map[string]*Posting
	termOrder         []string
	fieldVectors      map[FieldRef]*Vector
	vocabulary        *TokenSet
	numberMap         *NumberMap
	pipeline          *Pipeline
	metadataWhitelist []string
	tokenizer         *Tokenizer
	docRefs           []string
}

// Search parses queryString with the query-language grammar and runs it.
func (idx *Index) Search(queryString string) ([]Result, error) {
	var parseErr error
	results := idx.Query(func(q *Query) {
		parseErr = ParseQuery(queryString, q)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return results, nil
}

// Query invokes builderFn to populate a Query scoped to this index, then
// executes it per spec.md §4.9.
func (idx *Index) Query(builderFn func(*Query)) []Result {
	q := NewQuery(idx.fields, idx.fieldTypes, idx.numberMap)
	queryVectors := make(map[string]*Vector, len(idx.fields))
	for _, f := range idx.fields {
		queryVectors[f] = NewVector()
	}

	builderFn(q)

	requiredMatches := map[string]*Set{}
	prohibitedMatches := map[string]*Set{}
	fieldMatchData := map[FieldRef]*MatchData{}

clauseLoop:
	for ci := range q.Clauses {
		cl := &q.Clauses[ci]

		var clauseMatches *Set
		if cl.Presence == PresenceRequired {
			clauseMatches = EmptySet()
			for _, f := range cl.Fields {
				if _, ok := requiredMatches[f]; !ok {
					requiredMatches[f] = CompleteSet()
				}
			}
		}

		expansion := idx.expansionForClause(cl)

		if len(expansion) == 0 && cl.Presence == PresenceRequired {
			for _, f := range cl.Fields {
				requiredMatches[f] = EmptySet()
			}
			break clauseLoop
		}

		seen := map[string]bool{}
		for _, term := range expansion {
			posting, ok := idx.invertedIndex[term]
			if !ok {
				continue
			}
			for _, field := range cl.Fields {
				key := field + "\x00" + term
				if seen[key] {
					continue
				}
				seen[key] = true

				docs, ok := posting.Fields[field]
				if !ok || len(docs) == 0 {
					continue
				}
				docSet := NewSet(docRefKeys(docs)...)

				if cl.Presence == PresenceProhibited {
					if existing, ok := prohibitedMatches[field]; ok {
						prohibitedMatches[field] = existing.Union(docSet)
					} else {
						prohibitedMatches[field] = docSet
					}
					continue
				}

				if cl.Presence == PresenceRequired {
					clauseMatches = clauseMatches.Union(docSet)
				}

				if err := queryVectors[field].Upsert(posting.Index, cl.Boost, func(old, next float64) float64 {
					return old + next
				}); err != nil {
					continue
				}

				for docRef, byKey := range docs {
					fr := NewFieldRef(field, docRef)
					md := newMatchDataFromPosting(term, field, byKey)
					if existing, ok := fieldMatchData[fr]; ok {
						fieldMatchData[fr] = existing.Combine(md)
					} else {
						fieldMatchData[fr] = md
					}
				}
			}
		}

		if cl.Presence == PresenceRequired {
			for _, f := range cl.Fields {
				requiredMatches[f] = requiredMatches[f].Intersect(clauseMatches)
			}
		}
	}

	allRequired := CompleteSet()
	for _, s := range requiredMatches {
		allRequired = allRequired.Intersect(s)
	}
	allProhibited := EmptySet()
	for _, s := range prohibitedMatches {
		allProhibited = allProhibited.Union(s)
	}

	if q.IsNegated() {
		for _, field := range idx.fields {
			for _, docRef := range idx.docRefs {
				fr := NewFieldRef(field, docRef)
				if _, ok := fieldMatchData[fr]; !ok {
					fieldMatchData[fr] = &MatchData{metadata: map[string]map[string]map[string][]any{}}
				}
			}
		}
	}

	orderOf := make(map[string]int, len(idx.docRefs))
	for i, ref := range idx.docRefs {
		orderOf[ref] = i
	}

	type accum struct {
		score float64
		data  *MatchData
	}
	scores := map[string]*accum{}

	for fr, md := range fieldMatchData {
		if !allRequired.Contains(fr.DocRef) || allProhibited.Contains(fr.DocRef) {
			continue
		}

		var score float64
		if fv, ok := idx.fieldVectors[fr]; ok {
			score = queryVectors[fr.FieldName].Similarity(fv)
		}

		a, ok := scores[fr.DocRef]
		if !ok {
			a = &accum{}
			scores[fr.DocRef] = a
		}
		a.score += score
		if a.data == nil {
			a.data = md
		} else {
			a.data = a.data.Combine(md)
		}
	}

	results := make([]Result, 0, len(scores))
	for ref, a := range scores {
		results = append(results, Result{Ref: ref, Score: a.score, MatchData: a.data})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return orderOf[results[i].Ref] < orderOf[results[j].Ref]
	})
	return results
}

// expansionForClause resolves a clause's term to its concrete list of
// matching vocabulary terms: wildcard/fuzzy automaton intersection for
// string terms (after an optional pipeline run), or a NumberMap lookup
// for comparator/range terms.
func (idx *Index) expansionForClause(cl *Clause) []string {
	if s, isString := cl.TermString(); isString {
		terms := []string{s}
		if cl.UsePipeline {
			tokens := idx.pipeline.Run([]*Token{NewToken(s, nil)})
			terms = terms[:0]
			for _, t := range tokens {
				terms = append(terms, t.String())
			}
		}

		var expansion []string
		for _, term := range terms {
			var pattern *TokenSet
			if cl.EditDistance > 0 {
				pattern = TokenSetFromFuzzyString(term, cl.EditDistance)
			} else {
				pattern = TokenSetFromString(term)
			}
			expansion = append(expansion, idx.vocabulary.Intersect(pattern).ToArray()...)
		}
		return expansion
	}

	if cl.NumberMap == nil {
		return nil
	}
	switch t := cl.Term.(type) {
	case ComparatorTerm:
		return cl.NumberMap.Match(t.Comparator, t.Comparand).ToArray()
	case RangeTerm:
		return cl.NumberMap.Range(t.Start, t.End).ToArray()
	default:
		return nil
	}
}

func docRefKeys(docs map[string]map[string][]any) []string {
	out := make([]string, 0, len(docs))
	for ref := range docs {
		out = append(out, ref)
	}
	return out
}
