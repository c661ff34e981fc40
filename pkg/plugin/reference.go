package plugin

import (
	"iter"
	"strings"

	"github.com/matzehuels/plugindex/pkg/errors"
)

// Reference identifies a GitHub repository by owner and name.
// It is a comparable value and can be used as a map key.
type Reference struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the reference in owner/name form.
func (r Reference) String() string {
	return r.Owner + "/" + r.Name
}

// ParseReference parses an "owner/name" string.
// The input must split on "/" into exactly two non-empty parts.
func ParseReference(s string) (Reference, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Reference{}, errors.New(errors.ErrCodeInvalidRepoRef,
			"repository must be in user/repo format (e.g., foo/bar), got %q", s)
	}
	return Reference{Owner: parts[0], Name: parts[1]}, nil
}

// ReferenceSet is a set of references that remembers insertion order.
// The zero value is not usable; create sets with [NewReferenceSet].
type ReferenceSet struct {
	order []Reference
	seen  map[Reference]struct{}
}

// NewReferenceSet creates a set holding refs, dropping duplicates.
func NewReferenceSet(refs ...Reference) *ReferenceSet {
	s := &ReferenceSet{seen: make(map[Reference]struct{}, len(refs))}
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// Add inserts ref and reports whether it was not already present.
func (s *ReferenceSet) Add(ref Reference) bool {
	if _, ok := s.seen[ref]; ok {
		return false
	}
	s.seen[ref] = struct{}{}
	s.order = append(s.order, ref)
	return true
}

// Contains reports whether ref is in the set.
func (s *ReferenceSet) Contains(ref Reference) bool {
	_, ok := s.seen[ref]
	return ok
}

// Len returns the number of references in the set.
func (s *ReferenceSet) Len() int { return len(s.order) }

// All yields the references in insertion order.
func (s *ReferenceSet) All() iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for _, r := range s.order {
			if !yield(r) {
				return
			}
		}
	}
}

// Slice returns a copy of the references in insertion order.
func (s *ReferenceSet) Slice() []Reference {
	out := make([]Reference, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy of the set.
func (s *ReferenceSet) Clone() *ReferenceSet {
	return NewReferenceSet(s.order...)
}
