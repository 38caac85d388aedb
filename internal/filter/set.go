package filter

// Set is an ordered collection of active criteria, combined with AND.
type Set struct {
	criteria []Criterion
}

// Toggle removes an equivalent criterion if present, otherwise appends c.
// It reports whether c is active afterwards.
func (s *Set) Toggle(c Criterion) bool {
	for i, have := range s.criteria {
		if have.equivalent(c) {
			s.criteria = append(s.criteria[:i:i], s.criteria[i+1:]...)
			return false
		}
	}
	s.criteria = append(s.criteria, c)
	return true
}

// Has reports whether an equivalent criterion is active.
func (s *Set) Has(c Criterion) bool {
	for _, have := range s.criteria {
		if have.equivalent(c) {
			return true
		}
	}
	return false
}

// Criteria returns a copy of the active criteria in insertion order.
func (s *Set) Criteria() []Criterion {
	return append([]Criterion(nil), s.criteria...)
}

func (s *Set) Len() int { return len(s.criteria) }

func (s *Set) Clear() { s.criteria = nil }
