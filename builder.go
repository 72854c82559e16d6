package fts

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Document is an ingested record: field name to raw value. Values are
// whatever the configured extractor (or a plain map lookup) produces;
// the tokenizer coerces them to strings.
type Document map[string]any

// FieldOptions configures one named field on a Builder.
type FieldOptions struct {
	// Boost multiplies every score contributed by this field. Zero
	// means the default of 1.
	Boost float64
	// Extractor maps a Document to the raw value to index for this
	// field. Nil means "look up the field name directly on the
	// document".
	Extractor func(doc Document) any
	Type      FieldType
}

// DocumentOptions configures one document passed to Builder.Add.
type DocumentOptions struct {
	// Boost multiplies every score contributed by this document. Zero
	// means the default of 1.
	Boost float64
}

// Posting is the inverted index entry for one term: its dense ordinal
// and, per field, every document containing it with the whitelisted
// token metadata recorded at each occurrence.
type Posting struct {
	Index  int
	Fields map[string]map[string]map[string][]any // fieldName -> docRef -> metadataKey -> values
}

type fieldBM25Params struct{ k1, b float64 }

// Builder ingests documents and materializes the immutable structures
// an Index consumes: BM25 field vectors, the vocabulary TokenSet, and
// the NumberMap. It owns all build-time state exclusively and must not
// be used concurrently (spec.md §5); Build transfers everything it
// built into a fresh Index and the Builder should then be discarded.
type Builder struct {
	refField   string
	fieldOrder []string
	fields     map[string]FieldOptions

	pipeline          *Pipeline
	metadataWhitelist []string
	tokenizer         *Tokenizer

	k1          float64
	b           float64
	fieldParams map[string]fieldBM25Params

	docOrder  []string
	docSeen   map[string]bool
	docBoosts map[string]float64

	termOrder            []string
	invertedIndex        map[string]*Posting
	fieldLengths         map[FieldRef]int
	fieldTermFrequencies map[FieldRef]map[string]int
	nextTermIndex        int
}

// NewBuilder returns a Builder with the spec.md defaults: ref field
// "id", k1=1.2, b=0.75, an empty pipeline, and no metadata whitelist
// (token metadata is discarded unless MetadataWhitelist is called).
func NewBuilder() *Builder {
	return &Builder{
		refField:             "id",
		fields:               map[string]FieldOptions{},
		pipeline:             NewPipeline(),
		tokenizer:            NewTokenizer(),
		k1:                   1.2,
		b:                    0.75,
		fieldParams:          map[string]fieldBM25Params{},
		docSeen:              map[string]bool{},
		docBoosts:            map[string]float64{},
		invertedIndex:        map[string]*Posting{},
		fieldLengths:         map[FieldRef]int{},
		fieldTermFrequencies: map[FieldRef]map[string]int{},
	}
}

// Ref sets which document key holds the document's reference value.
func (bd *Builder) Ref(name string) { bd.refField = name }

// Field declares a field to index. Calling Field twice with the same
// name replaces its options without reordering it.
func (bd *Builder) Field(name string, opts FieldOptions) error {
	if strings.Contains(name, "/") {
		return ErrIllegalFieldName
	}
	if opts.Boost == 0 {
		opts.Boost = 1
	}
	if _, exists := bd.fields[name]; !exists {
		bd.fieldOrder = append(bd.fieldOrder, name)
	}
	bd.fields[name] = opts
	return nil
}

// B sets the BM25 length-normalization parameter, clamped to [0, 1].
func (bd *Builder) B(x float64) {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	bd.b = x
}

// K1 sets the BM25 term-frequency saturation parameter.
func (bd *Builder) K1(x float64) { bd.k1 = x }

// FieldParams overrides (k1, b) for one field's vectors, leaving every
// other field on the builder-wide default. This is the BM25F knob the
// teacher repo exposed as WithFieldParams (see SPEC_FULL.md's
// supplemented-features section).
func (bd *Builder) FieldParams(field string, k1, b float64) {
	if b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	bd.fieldParams[field] = fieldBM25Params{k1: k1, b: b}
}

// Use appends pipeline functions to the builder's ingestion pipeline.
// The same pipeline is carried into the built Index as its default
// search pipeline (spec.md §4.9 step 3).
func (bd *Builder) Use(fns ...PipelineFunction) {
	for _, fn := range fns {
		bd.pipeline.Add(fn)
	}
}

// UseLabeled appends a pipeline function under a registered label, so
// it survives Index.ToJSON/Load.
func (bd *Builder) UseLabeled(label string, fn PipelineFunction) {
	bd.pipeline.AddLabeled(label, fn)
}

// MetadataWhitelist sets which token metadata keys get copied into
// posting metadata. Empty by default (no metadata retained).
func (bd *Builder) MetadataWhitelist(keys ...string) {
	bd.metadataWhitelist = keys
}

// Add ingests one document under DocumentOptions.
func (bd *Builder) Add(doc Document, opts DocumentOptions) error {
	refVal, ok := doc[bd.refField]
	if !ok {
		return fmt.Errorf("fts: document missing ref field %q", bd.refField)
	}
	docRef := toString(refVal)

	boost := opts.Boost
	if boost == 0 {
		boost = 1
	}
	if !bd.docSeen[docRef] {
		bd.docSeen[docRef] = true
		bd.docOrder = append(bd.docOrder, docRef)
	}
	bd.docBoosts[docRef] = boost

	for _, fieldName := range bd.fieldOrder {
		fopts := bd.fields[fieldName]

		var raw any
		if fopts.Extractor != nil {
			raw = fopts.Extractor(doc)
		} else {
			raw = doc[fieldName]
		}

		fieldTypeStr := "string"
		if fopts.Type == FieldTypeNumber {
			fieldTypeStr = "number"
		}
		metadata := Metadata{"fields": []string{fieldName}, "type": fieldTypeStr}

		tokens := bd.tokenizer.Tokenize(raw, metadata)
		tokens = bd.pipeline.Run(tokens)

		fr := NewFieldRef(fieldName, docRef)
		bd.fieldLengths[fr] += len(tokens)
		if bd.fieldTermFrequencies[fr] == nil {
			bd.fieldTermFrequencies[fr] = map[string]int{}
		}

		for _, tok := range tokens {
			term := tok.String()
			bd.fieldTermFrequencies[fr][term]++

			posting, exists := bd.invertedIndex[term]
			if !exists {
				posting = &Posting{Index: bd.nextTermIndex, Fields: map[string]map[string]map[string][]any{}}
				for _, fn := range bd.fieldOrder {
					posting.Fields[fn] = map[string]map[string][]any{}
				}
				bd.nextTermIndex++
				bd.invertedIndex[term] = posting
				bd.termOrder = append(bd.termOrder, term)
			}

			docMeta, ok := posting.Fields[fieldName][docRef]
			if !ok {
				docMeta = map[string][]any{}
				posting.Fields[fieldName][docRef] = docMeta
			}
			for _, key := range bd.metadataWhitelist {
				if v, ok := tok.Metadata[key]; ok {
					docMeta[key] = append(docMeta[key], v)
				}
			}
		}
	}

	return nil
}

// Build computes BM25 field vectors, the vocabulary TokenSet, and the
// NumberMap, and transfers ownership of all of it into a new Index.
// The Builder should not be reused afterward.
func (bd *Builder) Build() (*Index, error) {
	docCount := len(bd.docOrder)
	avgFieldLength := map[string]float64{}
	for _, fieldName := range bd.fieldOrder {
		sum := 0
		for _, docRef := range bd.docOrder {
			sum += bd.fieldLengths[NewFieldRef(fieldName, docRef)]
		}
		if docCount > 0 {
			avgFieldLength[fieldName] = float64(sum) / float64(docCount)
		}
	}

	fieldVectors := map[FieldRef]*Vector{}
	N := float64(docCount)

	for _, term := range bd.termOrder {
		posting := bd.invertedIndex[term]

		df := 0
		for _, fieldName := range bd.fieldOrder {
			df += len(posting.Fields[fieldName])
		}
		idf := math.Log(1 + math.Abs((N-float64(df)+0.5)/(float64(df)+0.5)))

		for _, fieldName := range bd.fieldOrder {
			fopts := bd.fields[fieldName]
			k1, b := bd.k1, bd.b
			if fp, ok := bd.fieldParams[fieldName]; ok {
				k1, b = fp.k1, fp.b
			}
			avgLen := avgFieldLength[fieldName]

			for docRef := range posting.Fields[fieldName] {
				fr := NewFieldRef(fieldName, docRef)
				tf := float64(bd.fieldTermFrequencies[fr][term])
				if tf == 0 {
					continue
				}

				norm := 1.0
				if avgLen > 0 {
					norm = float64(bd.fieldLengths[fr]) / avgLen
				}
				docBoost := bd.docBoosts[docRef]

				score := idf * (k1 + 1) * tf / (k1*(1-b+b*norm) + tf) * fopts.Boost * docBoost
				score = math.Round(score*1000) / 1000

				vec, ok := fieldVectors[fr]
				if !ok {
					vec = NewVector()
					fieldVectors[fr] = vec
				}
				if err := vec.Insert(posting.Index, score); err != nil {
					return nil, err
				}
			}
		}
	}

	sortedTerms := append([]string(nil), bd.termOrder...)
	sort.Strings(sortedTerms)
	vocab, err := TokenSetFromArray(sortedTerms)
	if err != nil {
		return nil, err
	}

	fieldTypes := map[string]FieldType{}
	for name, opts := range bd.fields {
		fieldTypes[name] = opts.Type
	}

	return &Index{
		fields:            append([]string(nil), bd.fieldOrder...),
		fieldTypes:        fieldTypes,
		invertedIndex:     bd.invertedIndex,
		termOrder:         sortedTerms,
		fieldVectors:      fieldVectors,
		vocabulary:        vocab,
		numberMap:         NewNumberMap(bd.termOrder),
		pipeline:          bd.pipeline,
		metadataWhitelist: append([]string(nil), bd.metadataWhitelist...),
		tokenizer:         bd.tokenizer,
		docRefs:           append([]string(nil), bd.docOrder...),
	}, nil
}
