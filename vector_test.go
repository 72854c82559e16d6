package fts

import "testing"

func TestVectorUpsertIdempotence(t *testing.T) {
	v := NewVector()
	if err := v.Insert(3, 1.5); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	keep := func(old, next float64) float64 { return old }
	if err := v.Upsert(3, 9.9, keep); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	var got float64
	v.ForEach(func(idx int, val float64) {
		if idx == 3 {
			got = val
		}
	})
	if got != 1.5 {
		t.Fatalf("value after idempotent upsert = %v, want 1.5", got)
	}
}

func TestVectorInsertDuplicateErrors(t *testing.T) {
	v := NewVector()
	if err := v.Insert(1, 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := v.Insert(1, 2); err != ErrDuplicateIndex {
		t.Fatalf("Insert duplicate: err = %v, want ErrDuplicateIndex", err)
	}
}

func TestVectorDotCommutativity(t *testing.T) {
	a := NewVector()
	b := NewVector()
	for _, iv := range []struct {
		i int
		v float64
	}{{0, 1}, {2, 3}, {5, 7}} {
		if err := a.Insert(iv.i, iv.v); err != nil {
			t.Fatalf("a.Insert: %v", err)
		}
	}
	for _, iv := range []struct {
		i int
		v float64
	}{{2, 4}, {3, 1}, {5, 2}} {
		if err := b.Insert(iv.i, iv.v); err != nil {
			t.Fatalf("b.Insert: %v", err)
		}
	}
	if a.Dot(b) != b.Dot(a) {
		t.Fatalf("a.Dot(b) = %v, b.Dot(a) = %v, want equal", a.Dot(b), b.Dot(a))
	}
}

func TestVectorMagnitudeAndSimilarity(t *testing.T) {
	v := NewVector()
	v.Insert(0, 3)
	v.Insert(1, 4)
	if got, want := v.Magnitude(), 5.0; got != want {
		t.Fatalf("Magnitude() = %v, want %v", got, want)
	}

	empty := NewVector()
	if sim := empty.Similarity(v); sim != 0 {
		t.Fatalf("Similarity from zero-magnitude vector = %v, want 0", sim)
	}
}
