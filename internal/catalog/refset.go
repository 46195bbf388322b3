package catalog

// Reference records that Referencer uses a resource in the given role.
type Reference struct {
	Referencer Object
	Relation   Relation
}

// ReferenceSet holds the referencers of one registered resource. Adding the
// same pair twice shows it once, but it takes two removals to drop it.
type ReferenceSet struct {
	order []Reference
	uses  map[Reference]int
}

// NewReferenceSet returns an empty set.
func NewReferenceSet() *ReferenceSet {
	return &ReferenceSet{uses: make(map[Reference]int)}
}

// Add records one use of the pair.
func (s *ReferenceSet) Add(referencer Object, rel Relation) {
	r := Reference{Referencer: referencer, Relation: rel}
	if s.uses[r] == 0 {
		s.order = append(s.order, r)
	}
	s.uses[r]++
}

// RemoveRelation drops one use of the pair. It returns false when the pair
// was not present.
func (s *ReferenceSet) RemoveRelation(referencer Object, rel Relation) bool {
	r := Reference{Referencer: referencer, Relation: rel}
	n := s.uses[r]
	if n == 0 {
		return false
	}
	if n > 1 {
		s.uses[r] = n - 1
		return true
	}
	delete(s.uses, r)
	s.drop(func(x Reference) bool { return x == r })
	return true
}

// Remove drops every pair whose referencer is referencer and returns how many
// pairs were dropped.
func (s *ReferenceSet) Remove(referencer Object) int {
	n := 0
	for r := range s.uses {
		if r.Referencer == referencer {
			delete(s.uses, r)
			n++
		}
	}
	if n > 0 {
		s.drop(func(x Reference) bool { return x.Referencer == referencer })
	}
	return n
}

func (s *ReferenceSet) drop(match func(Reference) bool) {
	kept := s.order[:0]
	for _, r := range s.order {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	clear(s.order[len(kept):])
	s.order = kept
}

// Contains reports whether referencer uses the resource in any role.
func (s *ReferenceSet) Contains(referencer Object) bool {
	for _, r := range s.order {
		if r.Referencer == referencer {
			return true
		}
	}
	return false
}

// IsEmpty reports whether nothing references the resource.
func (s *ReferenceSet) IsEmpty() bool {
	return len(s.order) == 0
}

// Len returns the number of distinct pairs.
func (s *ReferenceSet) Len() int {
	return len(s.order)
}

// Snapshot returns the distinct pairs in the order they were first added.
func (s *ReferenceSet) Snapshot() []Reference {
	out := make([]Reference, len(s.order))
	copy(out, s.order)
	return out
}

// Referencers returns each distinct referencer once.
func (s *ReferenceSet) Referencers() []Object {
	seen := make(map[Object]bool, len(s.order))
	var out []Object
	for _, r := range s.order {
		if !seen[r.Referencer] {
			seen[r.Referencer] = true
			out = append(out, r.Referencer)
		}
	}
	return out
}
