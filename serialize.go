package fts

import (
	"encoding/json"
	"sort"
)

// wireVersion is bumped whenever the wire format in this file changes
// shape. A mismatch on Load is advisory only (spec.md §7 class 3): the
// engine still attempts to decode the payload as-is.
const wireVersion = 1

// MarshalJSON emits the posting's "_index" ordinal inline alongside its
// per-field document maps, per spec.md §6's wire shape.
func (p *Posting) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Fields)+1)
	m["_index"] = p.Index
	for field, docs := range p.Fields {
		m[field] = docs
	}
	return json.Marshal(m)
}

// UnmarshalJSON reverses MarshalJSON, pulling "_index" back out of the
// field map.
func (p *Posting) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Fields = map[string]map[string]map[string][]any{}
	for k, v := range raw {
		if k == "_index" {
			if err := json.Unmarshal(v, &p.Index); err != nil {
				return err
			}
			continue
		}
		var docs map[string]map[string][]any
		if err := json.Unmarshal(v, &docs); err != nil {
			return err
		}
		p.Fields[k] = docs
	}
	return nil
}

// fieldVectorEntry is one [fieldRef, [i,v,i,v,...]] pair.
type fieldVectorEntry struct {
	Ref   string
	Items []float64
}

func (e fieldVectorEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Ref, e.Items})
}

func (e *fieldVectorEntry) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Ref); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &e.Items)
}

// invertedIndexEntry is one [term, posting] pair.
type invertedIndexEntry struct {
	Term    string
	Posting *Posting
}

func (e invertedIndexEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Term, e.Posting})
}

func (e *invertedIndexEntry) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Term); err != nil {
		return err
	}
	e.Posting = &Posting{}
	return json.Unmarshal(tuple[1], e.Posting)
}

// wireIndex is the JSON-compatible structural format of spec.md §6.
type wireIndex struct {
	Version       int                  `json:"version"`
	Fields        []string             `json:"fields"`
	FieldTypes    map[string]string    `json:"fieldTypes"`
	FieldVectors  []fieldVectorEntry   `json:"fieldVectors"`
	InvertedIndex []invertedIndexEntry `json:"invertedIndex"`
	Pipeline      []string             `json:"pipeline"`
}

// ToJSON serializes the index to its wire format. The inverted index is
// emitted sorted by term and field vectors sorted by field ref, so
// output is byte-for-byte deterministic for a given index (spec.md §5).
func (idx *Index) ToJSON() ([]byte, error) {
	fieldTypes := make(map[string]string, len(idx.fields))
	for _, f := range idx.fields {
		if idx.fieldTypes[f] == FieldTypeNumber {
			fieldTypes[f] = "number"
		} else {
			fieldTypes[f] = "string"
		}
	}

	frStrings := make([]string, 0, len(idx.fieldVectors))
	frByString := make(map[string]FieldRef, len(idx.fieldVectors))
	for fr := range idx.fieldVectors {
		s := fr.String()
		frStrings = append(frStrings, s)
		frByString[s] = fr
	}
	sort.Strings(frStrings)

	fieldVectors := make([]fieldVectorEntry, 0, len(frStrings))
	for _, s := range frStrings {
		vec := idx.fieldVectors[frByString[s]]
		var items []float64
		vec.ForEach(func(i int, v float64) {
			items = append(items, float64(i), v)
		})
		fieldVectors = append(fieldVectors, fieldVectorEntry{Ref: s, Items: items})
	}

	terms := append([]string(nil), idx.termOrder...)
	sort.Strings(terms)
	invertedIndex := make([]invertedIndexEntry, 0, len(terms))
	for _, t := range terms {
		invertedIndex = append(invertedIndex, invertedIndexEntry{Term: t, Posting: idx.invertedIndex[t]})
	}

	return json.Marshal(wireIndex{
		Version:       wireVersion,
		Fields:        idx.fields,
		FieldTypes:    fieldTypes,
		FieldVectors:  fieldVectors,
		InvertedIndex: invertedIndex,
		Pipeline:      idx.pipeline.ToJSON(),
	})
}

// LoadIndex decodes an Index from its ToJSON wire format. A version
// mismatch only logs an advisory warning; an unregistered pipeline
// label is fatal (spec.md §7).
//
// The wire format carries no document insertion order, so a reloaded
// Index falls back to sorting doc refs lexicographically for
// tie-breaking; this only differs from the original insertion order,
// never from determinism within one loaded Index.
func LoadIndex(data []byte) (*Index, error) {
	var wire wireIndex
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire.Version != wireVersion {
		warnf("loading index serialized with version %d, current version is %d", wire.Version, wireVersion)
	}

	fieldTypes := make(map[string]FieldType, len(wire.FieldTypes))
	for f, t := range wire.FieldTypes {
		if t == "number" {
			fieldTypes[f] = FieldTypeNumber
		} else {
			fieldTypes[f] = FieldTypeString
		}
	}

	invertedIndex := make(map[string]*Posting, len(wire.InvertedIndex))
	termOrder := make([]string, 0, len(wire.InvertedIndex))
	docSeen := map[string]bool{}
	var docRefs []string
	for _, e := range wire.InvertedIndex {
		invertedIndex[e.Term] = e.Posting
		termOrder = append(termOrder, e.Term)
		for _, docs := range e.Posting.Fields {
			for docRef := range docs {
				if !docSeen[docRef] {
					docSeen[docRef] = true
					docRefs = append(docRefs, docRef)
				}
			}
		}
	}
	sort.Strings(docRefs)

	fieldVectors := make(map[FieldRef]*Vector, len(wire.FieldVectors))
	for _, e := range wire.FieldVectors {
		fr, err := ParseFieldRef(e.Ref)
		if err != nil {
			return nil, err
		}
		vec := NewVector()
		for i := 0; i+1 < len(e.Items); i += 2 {
			if err := vec.Insert(int(e.Items[i]), e.Items[i+1]); err != nil {
				return nil, err
			}
		}
		fieldVectors[fr] = vec
	}

	pipeline, err := LoadPipeline(wire.Pipeline)
	if err != nil {
		return nil, err
	}

	vocab, err := TokenSetFromArray(termOrder)
	if err != nil {
		return nil, err
	}

	return &Index{
		fields:        wire.Fields,
		fieldTypes:    fieldTypes,
		invertedIndex: invertedIndex,
		termOrder:     termOrder,
		fieldVectors:  fieldVectors,
		vocabulary:    vocab,
		numberMap:     NewNumberMap(termOrder),
		pipeline:      pipeline,
		tokenizer:     NewTokenizer(),
		docRefs:       docRefs,
	}, nil
}
