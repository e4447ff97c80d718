package option

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateOption is returned when two options share the same key
var ErrDuplicateOption = errors.New("duplicate option key")

// Registry holds the options known to the server
type Registry struct {
	byKey map[string]*Option
	order []*Option
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Option)}
}

// Register adds options to the registry. Registration stops at the first
// duplicate key; options before it stay registered.
func (r *Registry) Register(opts ...*Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if _, exists := r.byKey[opt.Key()]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateOption, opt.Key())
		}
		r.byKey[opt.Key()] = opt
		r.order = append(r.order, opt)
	}
	return nil
}

// RegisterOption builds and registers an option in one step
func (r *Registry) RegisterOption(key string, typ Type, category Category, defaultValue string, expectedValues []string, buildTime bool) (*Option, error) {
	b := New(key, typ).Category(category).ExpectedValues(expectedValues...).BuildTime(buildTime)
	if defaultValue != "" {
		b.Default(defaultValue)
	}
	opt, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := r.Register(opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// Lookup returns the option registered under key
func (r *Registry) Lookup(key string) (*Option, bool) {
	opt, ok := r.byKey[key]
	return opt, ok
}

// All returns the options in registration order
func (r *Registry) All() []*Option {
	out := make([]*Option, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide option catalogue. It is populated once
// and must not be modified afterwards.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		if err := r.Register(catalogue()...); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

func catalogue() []*Option {
	var all []*Option
	all = append(all, providerOptions()...)
	all = append(all, securityOptions()...)
	all = append(all, truststoreOptions()...)
	all = append(all, databaseOptions()...)
	all = append(all, httpOptions()...)
	all = append(all, hostnameOptions()...)
	all = append(all, featureOptions()...)
	all = append(all, loggingOptions()...)
	all = append(all, configOptions()...)
	all = append(all, healthOptions()...)
	all = append(all, metricsOptions()...)
	all = append(all, tracingOptions()...)
	all = append(all, cacheOptions()...)
	all = append(all, bootstrapAdminOptions()...)
	return all
}
