// Package header discovers the ordered column set of a record stream.
package header

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Set is an ordered collection of unique column names. Names keep the order
// in which they were first added; adding a name again is a no-op.
type Set struct {
	names *orderedmap.OrderedMap[string, struct{}]
}

// NewSet returns a Set seeded with names.
func NewSet(names ...string) *Set {
	s := &Set{names: orderedmap.NewOrderedMap[string, struct{}]()}
	s.AddAll(names)
	return s
}

// Add inserts name and reports whether it was new.
func (s *Set) Add(name string) bool {
	if _, ok := s.names.Get(name); ok {
		return false
	}
	s.names.Set(name, struct{}{})
	return true
}

// AddAll inserts names in order and returns how many were new.
func (s *Set) AddAll(names []string) int {
	added := 0
	for _, name := range names {
		if s.Add(name) {
			added++
		}
	}
	return added
}

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.names.Get(name)
	return ok
}

// Len returns the number of columns.
func (s *Set) Len() int {
	return s.names.Len()
}

// Names returns the columns in order. The slice is a fresh copy.
func (s *Set) Names() []string {
	out := make([]string, 0, s.names.Len())
	for el := s.names.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}
