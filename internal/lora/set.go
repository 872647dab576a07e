package lora

import "sort"

type mapSet struct {
	names map[string]struct{}
}

// NewSet builds a set from the given names. Blank names are ignored.
func NewSet(names ...string) Set {
	s := &mapSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s *mapSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *mapSet) Size() int {
	return len(s.names)
}

func (s *mapSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *mapSet) add(name string) {
	if name == "" {
		return
	}
	s.names[name] = struct{}{}
}
