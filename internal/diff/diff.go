// Package diff compares two generations of keyed records.
package diff

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Record is anything with a stable identity and fields addressable by name.
type Record interface {
	Key() string
	Field(name string) (any, bool)
}

// Change pairs the two generations of a modified record.
type Change[T Record] struct {
	New T `json:"new"`
	Old T `json:"old"`
}

// Result holds the outcome of Compute. Slices are never nil so encoded
// results always carry all three keys as arrays.
type Result[T Record] struct {
	Added    []T         `json:"added"`
	Modified []Change[T] `json:"modified"`
	Removed  []T         `json:"removed"`
}

// Empty reports whether nothing changed.
func (r Result[T]) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Compute diffs old against new by key. A record present in both is
// modified only when one of the dirty fields differs; other fields are
// never looked at. Records keep the order of their input slice. When a key
// repeats within one generation the last record wins.
func Compute[T Record](old, new []T, dirty []string) Result[T] {
	oldByKey, oldKeys := index(old)
	newByKey, newKeys := index(new)

	res := Result[T]{
		Added:    []T{},
		Modified: []Change[T]{},
		Removed:  []T{},
	}
	for _, k := range newKeys {
		n := newByKey[k]
		o, ok := oldByKey[k]
		if !ok {
			res.Added = append(res.Added, n)
			continue
		}
		if Dirty(o, n, dirty) {
			res.Modified = append(res.Modified, Change[T]{Old: o, New: n})
		}
	}
	for _, k := range oldKeys {
		if _, ok := newByKey[k]; !ok {
			res.Removed = append(res.Removed, oldByKey[k])
		}
	}
	return res
}

var equateOpts = []cmp.Option{cmpopts.EquateEmpty()}

// Dirty reports whether any of fields differs between a and b. A field
// present on only one side counts as different.
func Dirty[T Record](a, b T, fields []string) bool {
	for _, f := range fields {
		av, aok := a.Field(f)
		bv, bok := b.Field(f)
		if aok != bok {
			return true
		}
		if !cmp.Equal(av, bv, equateOpts...) {
			return true
		}
	}
	return false
}

func index[T Record](records []T) (map[string]T, []string) {
	byKey := make(map[string]T, len(records))
	keys := make([]string, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, seen := byKey[k]; !seen {
			keys = append(keys, k)
		}
		byKey[k] = r
	}
	return byKey, keys
}
