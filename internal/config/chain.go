package config

// Context is handed to an interceptor while it resolves a name
type Context interface {
	// Proceed resolves name with the interceptors below the current one
	Proceed(name string) *Value
	// Restart resolves name from the top of the chain
	Restart(name string) *Value
	// IterateNames lists the names known to the interceptors below the current one
	IterateNames() []string
	// Scope is the state of the current top-level resolution
	Scope() *Scope
}

// Interceptor is a link of the resolution chain. Interceptors run in
// descending priority; the configuration sources form the tail.
type Interceptor interface {
	Priority() int
	GetValue(ctx Context, name string) *Value
	IterateNames(ctx Context) []string
}

type chainContext struct {
	cfg   *Config
	pos   int
	scope *Scope
}

func (c *chainContext) Proceed(name string) *Value {
	return c.cfg.valueAt(c.pos+1, name, c.scope)
}

func (c *chainContext) Restart(name string) *Value {
	return c.cfg.valueAt(0, name, c.scope)
}

func (c *chainContext) IterateNames() []string {
	return c.cfg.namesAt(c.pos+1, c.scope)
}

func (c *chainContext) Scope() *Scope {
	return c.scope
}

func (c *Config) valueAt(pos int, name string, scope *Scope) *Value {
	if pos >= len(c.interceptors) {
		return c.sourceValue(name)
	}
	return c.interceptors[pos].GetValue(&chainContext{cfg: c, pos: pos, scope: scope}, name)
}

func (c *Config) namesAt(pos int, scope *Scope) []string {
	if pos >= len(c.interceptors) {
		return c.sourceNames()
	}
	return c.interceptors[pos].IterateNames(&chainContext{cfg: c, pos: pos, scope: scope})
}

// sourceValue looks name up in the sources. With an active profile the
// profile-prefixed property wins unless the plain one comes from a source
// with a higher ordinal.
func (c *Config) sourceValue(name string) *Value {
	plain := c.lookup(name)
	if c.profile == "" {
		return plain
	}
	prefixed := c.lookup(ProfilePrefix(c.profile) + name)
	if prefixed == nil {
		return plain
	}
	if plain != nil && plain.SourceOrdinal > prefixed.SourceOrdinal {
		return plain
	}
	prefixed.Name = name
	return prefixed
}

func (c *Config) lookup(name string) *Value {
	for _, s := range c.sources {
		v, ok := s.Get(name)
		if !ok || v == "" {
			continue
		}
		return &Value{
			Name:          name,
			Value:         v,
			RawValue:      v,
			SourceName:    s.Name(),
			SourceOrdinal: s.Ordinal(),
		}
	}
	return nil
}

// sourceNames lists the distinct names of all sources. Names carrying the
// active profile prefix are reported without it; other profiles are skipped.
func (c *Config) sourceNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range c.sources {
		for _, n := range s.Names() {
			if p, rest, ok := SplitProfile(n); ok {
				if p != c.profile {
					continue
				}
				n = rest
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	return names
}
