package fts

// MatchData aggregates, for a single result, the per-term/per-field
// metadata recorded across every matching clause term: term -> field ->
// metadataKey -> accumulated values.
type MatchData struct {
	metadata map[string]map[string]map[string][]any
}

// NewMatchData creates a MatchData, optionally seeded with a single
// (term, field, metadata) entry.
func NewMatchData(term, field string, metadata Metadata) *MatchData {
	md := &MatchData{metadata: map[string]map[string]map[string][]any{}}
	if term != "" {
		md.Add(term, field, metadata)
	}
	return md
}

// Add records metadata observed for term in field, concatenating onto
// any existing values for a repeated key.
func (md *MatchData) Add(term, field string, metadata Metadata) {
	if md.metadata == nil {
		md.metadata = map[string]map[string]map[string][]any{}
	}
	byField, ok := md.metadata[term]
	if !ok {
		byField = map[string]map[string][]any{}
		md.metadata[term] = byField
	}
	byKey, ok := byField[field]
	if !ok {
		byKey = map[string][]any{}
		byField[field] = byKey
	}
	for k, v := range metadata {
		byKey[k] = append(byKey[k], v)
	}
}

// Combine merges other into a new MatchData, concatenating arrays at
// matching (term, field, key) paths with md's values before other's.
// The order of terms, fields and keys is not kept: each level is a Go
// map.
func (md *MatchData) Combine(other *MatchData) *MatchData {
	out := &MatchData{metadata: map[string]map[string]map[string][]any{}}
	merge := func(src *MatchData) {
		if src == nil {
			return
		}
		for term, byField := range src.metadata {
			dstByField, ok := out.metadata[term]
			if !ok {
				dstByField = map[string]map[string][]any{}
				out.metadata[term] = dstByField
			}
			for field, byKey := range byField {
				dstByKey, ok := dstByField[field]
				if !ok {
					dstByKey = map[string][]any{}
					dstByField[field] = dstByKey
				}
				for k, values := range byKey {
					dstByKey[k] = append(append([]any{}, dstByKey[k]...), values...)
				}
			}
		}
	}
	merge(md)
	merge(other)
	return out
}

// newMatchDataFromPosting builds a MatchData for one (term, field) pair
// directly from the posting's already-accumulated per-key value lists,
// rather than appending one value at a time through Add.
func newMatchDataFromPosting(term, field string, byKey map[string][]any) *MatchData {
	keys := map[string][]any{}
	for k, v := range byKey {
		keys[k] = append([]any{}, v...)
	}
	return &MatchData{metadata: map[string]map[string]map[string][]any{
		term: {field: keys},
	}}
}

// Terms returns the terms this MatchData has metadata for.
func (md *MatchData) Terms() []string {
	out := make([]string, 0, len(md.metadata))
	for term := range md.metadata {
		out = append(out, term)
	}
	return out
}

// ForTerm returns the field->key->values metadata recorded for term.
func (md *MatchData) ForTerm(term string) map[string]map[string][]any {
	return md.metadata[term]
}
