package prompt

import "strconv"

// stem hands out "<prefix><n>" names, n counting up from 1 and skipping
// names already taken.
type stem struct {
	taken  map[string]struct{}
	prefix string
	last   int
}

// newStem creates a stem over taken. A nil taken set means every name is
// free.
func newStem(prefix string, taken map[string]struct{}) *stem {
	if taken == nil {
		taken = make(map[string]struct{})
	}

	return &stem{taken: taken, prefix: prefix}
}

// Next returns the lowest free name and marks it taken.
func (s *stem) Next() string {
	for {
		s.last++
		name := s.prefix + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}
