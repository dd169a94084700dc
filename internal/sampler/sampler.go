package sampler

import "math/rand"

// Sample picks up to n identifiers from the manifest, skipping excluded ones,
// via a uniform Fisher-Yates permutation of the eligible subset. When fewer
// than n identifiers remain eligible, all of them are returned in randomized
// order. The exclusion set is never mutated here: callers mark an identifier
// shown only once a usable article has been produced from it, so a fetch or
// parse failure leaves the document eligible for a later cycle.
func Sample(manifest []string, excluded *ExclusionSet, n int) []string {
	eligible := make([]string, 0, len(manifest))
	for _, id := range manifest {
		if excluded.Has(id) {
			continue
		}
		eligible = append(eligible, id)
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if n < 0 {
		n = 0
	}
	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// ExclusionSet tracks identifiers already shown in this session, in insertion
// order so the oldest entries can be truncated to bound memory. Truncation is
// a deliberate availability/memory tradeoff: a truncated document may be
// sampled again.
type ExclusionSet struct {
	order []string
	seen  map[string]struct{}
}

// NewExclusionSet builds an empty set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{seen: map[string]struct{}{}}
}

// Add marks an identifier as shown. Re-adding is a no-op.
func (s *ExclusionSet) Add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

// Has reports whether the identifier has been marked shown.
func (s *ExclusionSet) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of tracked identifiers.
func (s *ExclusionSet) Len() int {
	return len(s.order)
}

// Truncate drops the oldest entries until at most retain remain.
func (s *ExclusionSet) Truncate(retain int) {
	if retain < 0 {
		retain = 0
	}
	if len(s.order) <= retain {
		return
	}
	dropped := s.order[:len(s.order)-retain]
	for _, id := range dropped {
		delete(s.seen, id)
	}
	s.order = append([]string(nil), s.order[len(s.order)-retain:]...)
}
