// Package config resolves configuration values through a chain of
// interceptors on top of a set of ordered sources.
//
// A lookup enters the chain at the interceptor with the highest priority.
// Each interceptor may transform the name or the value, hand the lookup to
// the next interceptor with Proceed, or start over with Restart. The
// sources, ordered by descending ordinal, are the tail of the chain.
package config

import (
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// NSPrefix is the namespace of Keycloak properties
const NSPrefix = "kc."

// Options configures a Config
type Options struct {
	Sources      []Source
	Interceptors []Interceptor
	// Profile is the active configuration profile, e.g. "dev"
	Profile string
	Log     logr.Logger
}

// Config is an immutable view over sources and interceptors
type Config struct {
	sources      []Source
	interceptors []Interceptor
	profile      string
	log          logr.Logger
}

// New builds a Config. The expression and recursion-guard interceptors are
// always part of the chain.
func New(opts Options) *Config {
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	log = log.WithName("config")

	sources := append([]Source(nil), opts.Sources...)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Ordinal() > sources[j].Ordinal()
	})

	interceptors := append([]Interceptor(nil), opts.Interceptors...)
	interceptors = append(interceptors, &ExpressionInterceptor{Log: log}, RecursionGuard{})
	sort.SliceStable(interceptors, func(i, j int) bool {
		return interceptors[i].Priority() > interceptors[j].Priority()
	})

	return &Config{
		sources:      sources,
		interceptors: interceptors,
		profile:      opts.Profile,
		log:          log,
	}
}

// Value resolves name through the whole chain. A nil Value means absent;
// the error reports an expression that could not be expanded.
func (c *Config) Value(name string) (*Value, error) {
	scope := NewScope()
	v := c.valueAt(0, name, scope)
	if err := scope.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// KcValue resolves a property of the kc. namespace
func (c *Config) KcValue(key string) (*Value, error) {
	return c.Value(NSPrefix + key)
}

// RawValue resolves name with property mapping disabled
func (c *Config) RawValue(name string) (string, bool) {
	scope := NewScope()
	restore := scope.DisableMapping()
	defer restore()
	v := c.valueAt(0, name, scope)
	if scope.Err() != nil || !v.Present() {
		return "", false
	}
	return v.Value, true
}

// Names lists the property names known to the chain, including the names
// the interceptors derive from them.
func (c *Config) Names() []string {
	names := c.namesAt(0, NewScope())
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// PropertyNames lists the raw names of every source, profile prefixes
// included
func (c *Config) PropertyNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range c.sources {
		for _, n := range s.Names() {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	return names
}

// Profile returns the active profile, or ""
func (c *Config) Profile() string {
	return c.profile
}

// Sources returns the sources by descending ordinal
func (c *Config) Sources() []Source {
	return append([]Source(nil), c.sources...)
}

// ProfilePrefix returns the property prefix of a profile, e.g. "%dev."
func ProfilePrefix(profile string) string {
	return "%" + profile + "."
}

// SplitProfile splits "%dev.kc.db" into "dev" and "kc.db"
func SplitProfile(name string) (profile, rest string, ok bool) {
	if !strings.HasPrefix(name, "%") {
		return "", name, false
	}
	profile, rest, ok = strings.Cut(name[1:], ".")
	if !ok || profile == "" {
		return "", name, false
	}
	return profile, rest, true
}
