package answer

import (
	"maps"
	"slices"
)

// Set is a set of normalized answer strings.
type Set map[string]struct{}

// NewSet builds a set from items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Add(item string) {
	s[item] = struct{}{}
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order. The result is never nil so
// that empty sets serialize as [].
func (s Set) Sorted() []string {
	out := slices.Sorted(maps.Keys(s))
	if out == nil {
		out = []string{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same members.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for item := range s {
		if !o.Has(item) {
			return false
		}
	}
	return true
}

// Intersect returns the members present in both sets.
func (s Set) Intersect(o Set) Set {
	out := make(Set)
	for item := range s {
		if o.Has(item) {
			out.Add(item)
		}
	}
	return out
}

// Difference returns the members of s that are not in o.
func (s Set) Difference(o Set) Set {
	out := make(Set)
	for item := range s {
		if !o.Has(item) {
			out.Add(item)
		}
	}
	return out
}
