package fts

// FieldType is the declared value type of an indexed field.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeNumber
)

// Presence is a clause's effect on candidate documents (spec.md §4.7).
type Presence int

const (
	PresenceOptional Presence = iota
	PresenceRequired
	PresenceProhibited
)

// Wildcard is a bitset of where an implicit "*" should be inserted
// around a clause's term.
type Wildcard int

const (
	WildcardNone     Wildcard = 0
	WildcardLeading  Wildcard = 1 << 0
	WildcardTrailing Wildcard = 1 << 1
)

// ComparatorTerm is a clause term of the form "field:>=10".
type ComparatorTerm struct {
	Comparator Comparator
	Comparand  float64
}

// RangeTerm is a clause term of the form "field:5..10". A nil bound
// means "*" (unbounded).
type RangeTerm struct {
	Start *float64
	End   *float64
}

// Clause is one atomic matching unit of a Query: a term (string,
// ComparatorTerm, or RangeTerm), its field scope, presence, boost, and
// wildcard/edit-distance flags.
type Clause struct {
	Fields       []string
	FieldTypes   map[string]FieldType
	Term         any
	Boost        float64
	EditDistance int
	UsePipeline  bool
	Wildcard     Wildcard
	Presence     Presence
	NumberMap    *NumberMap
}

// ClauseOptions configures a Clause via Query.Clause; zero-valued
// fields take the defaults documented on Query.Clause.
type ClauseOptions struct {
	Fields       []string
	Boost        float64
	EditDistance int
	UsePipeline  *bool
	Wildcard     Wildcard
	Presence     Presence
}

// TermString returns the clause's term as a string plus whether it was
// actually a string term (false for ComparatorTerm/RangeTerm clauses).
func (c *Clause) TermString() (string, bool) {
	s, ok := c.Term.(string)
	return s, ok
}

// Query is an ordered sequence of Clauses plus a reference to the
// available fields/types and NumberMap they're resolved against.
type Query struct {
	AllFields    []string
	NumberFields []string
	FieldTypes   map[string]FieldType
	NumberMap    *NumberMap
	Clauses      []Clause
}

// NewQuery returns an empty Query scoped to the given fields/types/map.
func NewQuery(allFields []string, fieldTypes map[string]FieldType, numberMap *NumberMap) *Query {
	q := &Query{AllFields: allFields, FieldTypes: fieldTypes, NumberMap: numberMap}
	for _, f := range allFields {
		if fieldTypes[f] == FieldTypeNumber {
			q.NumberFields = append(q.NumberFields, f)
		}
	}
	return q
}

// Clause appends a clause built from c and clauseTerm, applying the
// spec.md §4.7 defaults for any zero-valued option: Boost 1, UsePipeline
// true, and Fields set to every field for a string term or to the
// numeric fields for a ComparatorTerm/RangeTerm.
func (q *Query) Clause(clauseTerm any, c ClauseOptions) *Clause {
	cl := Clause{
		Term:         clauseTerm,
		Boost:        1,
		EditDistance: c.EditDistance,
		UsePipeline:  true,
		Wildcard:     c.Wildcard,
		Presence:     c.Presence,
	}
	if c.Boost != 0 {
		cl.Boost = c.Boost
	}
	if c.UsePipeline != nil {
		cl.UsePipeline = *c.UsePipeline
	}

	_, isString := clauseTerm.(string)
	if len(c.Fields) > 0 {
		cl.Fields = c.Fields
	} else if isString {
		cl.Fields = q.AllFields
	} else {
		cl.Fields = q.NumberFields
	}

	cl.FieldTypes = q.FieldTypes
	if !isString {
		cl.NumberMap = q.NumberMap
	}

	if s, ok := clauseTerm.(string); ok {
		if cl.Wildcard&WildcardLeading != 0 && len(s) > 0 && s[0] != '*' {
			s = "*" + s
		}
		if cl.Wildcard&WildcardTrailing != 0 && len(s) > 0 && s[len(s)-1] != '*' {
			s = s + "*"
		}
		cl.Term = s
	}

	q.Clauses = append(q.Clauses, cl)
	return &q.Clauses[len(q.Clauses)-1]
}

// Term adds one clause per term in terms, each sharing the same options.
func (q *Query) Term(terms []string, c ClauseOptions) {
	for _, t := range terms {
		q.Clause(t, c)
	}
}

// ComparatorClause adds a clause of the form field <op> comparand.
func (q *Query) ComparatorClause(op Comparator, comparand float64, c ClauseOptions) {
	q.Clause(ComparatorTerm{Comparator: op, Comparand: comparand}, c)
}

// RangeClause adds a clause of the form field lo..hi. A nil bound means
// unbounded ("*").
func (q *Query) RangeClause(lo, hi *float64, c ClauseOptions) {
	q.Clause(RangeTerm{Start: lo, End: hi}, c)
}

// IsNegated reports whether every clause is PROHIBITED, in which case
// the query matches everything except documents containing a
// prohibited term.
func (q *Query) IsNegated() bool {
	if len(q.Clauses) == 0 {
		return false
	}
	for _, c := range q.Clauses {
		if c.Presence != PresenceProhibited {
			return false
		}
	}
	return true
}
