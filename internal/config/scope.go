package config

// Scope is the state of a single top-level resolution. It travels with the
// interceptor context, so independent resolutions never share it. A Scope
// is not safe for concurrent use.
type Scope struct {
	inFlight        map[string]struct{}
	mappingDisabled int
	depth           int
	expanding       map[string]struct{}
	err             error
}

// NewScope returns an empty scope
func NewScope() *Scope {
	return &Scope{inFlight: make(map[string]struct{}), expanding: make(map[string]struct{})}
}

// Acquire marks name as being resolved. ok is false when name is already
// in flight; otherwise release must be called once resolution finishes.
func (s *Scope) Acquire(name string) (release func(), ok bool) {
	if _, busy := s.inFlight[name]; busy {
		return func() {}, false
	}
	s.inFlight[name] = struct{}{}
	return func() { delete(s.inFlight, name) }, true
}

// InFlight returns the number of names currently being resolved
func (s *Scope) InFlight() int {
	return len(s.inFlight)
}

// IsAtRoot reports whether exactly one name is being resolved
func (s *Scope) IsAtRoot() bool {
	return len(s.inFlight) == 1
}

// DisableMapping turns property mapping off until restore is called.
// Calls nest.
func (s *Scope) DisableMapping() (restore func()) {
	s.mappingDisabled++
	return func() { s.mappingDisabled-- }
}

func (s *Scope) MappingDisabled() bool {
	return s.mappingDisabled > 0
}

// enterExpansion marks the value of name as being expanded. An empty name
// only counts towards the depth limit.
func (s *Scope) enterExpansion(name string, limit int) (leave func(), ok bool) {
	if s.depth >= limit {
		return func() {}, false
	}
	s.depth++
	_, marked := s.expanding[name]
	if name != "" && !marked {
		s.expanding[name] = struct{}{}
	}
	return func() {
		s.depth--
		if name != "" && !marked {
			delete(s.expanding, name)
		}
	}, true
}

// IsExpanding reports whether the value of name is being expanded
func (s *Scope) IsExpanding(name string) bool {
	_, ok := s.expanding[name]
	return ok
}

// Fail records err as the outcome of the resolution. Only the first error is kept.
func (s *Scope) Fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Scope) Err() error {
	return s.err
}
