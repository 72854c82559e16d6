package fts

import "strings"

// FieldRef is the composite key fieldName + "/" + docRef used to store
// per-(doc,field) state. "/" is reserved in field names for this reason.
type FieldRef struct {
	FieldName string
	DocRef    string
}

// NewFieldRef constructs a FieldRef.
func NewFieldRef(fieldName, docRef string) FieldRef {
	return FieldRef{FieldName: fieldName, DocRef: docRef}
}

// String encodes the ref as "fieldName/docRef".
func (fr FieldRef) String() string {
	return fr.FieldName + "/" + fr.DocRef
}

// ParseFieldRef decodes a "fieldName/docRef" string. The docRef itself
// may contain "/"; only the first separator is significant.
func ParseFieldRef(s string) (FieldRef, error) {
	idx := strings.IndexByte(s, '/')
	if idx < 0 {
		return FieldRef{}, ErrMalformedFieldRef
	}
	return FieldRef{FieldName: s[:idx], DocRef: s[idx+1:]}, nil
}
