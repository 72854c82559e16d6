package fts

import (
	"reflect"
	"sort"
	"testing"
)

func TestNumberMapMatch(t *testing.T) {
	nm := NewNumberMap([]string{"1", "3", "5", "5.5", "7", "notanumber"})

	cases := []struct {
		op   Comparator
		x    float64
		want []string
	}{
		{ComparatorGT, 5, []string{"5.5", "7"}},
		{ComparatorGTE, 5, []string{"5", "5.5", "7"}},
		{ComparatorLT, 5, []string{"1", "3"}},
		{ComparatorLTE, 5, []string{"1", "3", "5"}},
	}

	for _, c := range cases {
		got := nm.Match(c.op, c.x).ToArray()
		sort.Strings(got)
		sort.Strings(c.want)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Match(%s, %v) = %v, want %v", c.op, c.x, got, c.want)
		}
	}
}

func TestNumberMapRange(t *testing.T) {
	nm := NewNumberMap([]string{"1", "3", "5", "7", "9"})

	lo, hi := 3.0, 7.0
	got := nm.Range(&lo, &hi).ToArray()
	sort.Strings(got)
	want := []string{"3", "5", "7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range(3,7) = %v, want %v", got, want)
	}

	got = nm.Range(nil, &hi).ToArray()
	sort.Strings(got)
	want = []string{"1", "3", "5", "7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range(*,7) = %v, want %v", got, want)
	}

	got = nm.Range(&lo, nil).ToArray()
	sort.Strings(got)
	want = []string{"3", "5", "7", "9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range(3,*) = %v, want %v", got, want)
	}
}

func TestNumberMapIgnoresNonNumericTerms(t *testing.T) {
	nm := NewNumberMap([]string{"cat", "dog", "3"})
	if len(nm.entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(nm.entries))
	}
}
