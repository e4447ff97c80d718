package mapper

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-logr/logr"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// Registry indexes property mappers by every name form of their option:
// kc. property, mapped property, command line flag and environment
// variable. Wildcard mappers are found through segment trees instead.
type Registry struct {
	log logr.Logger

	mu        sync.RWMutex
	all       []*PropertyMapper
	exact     map[string][]*PropertyMapper
	buildTime map[option.Category][]*PropertyMapper
	runTime   map[option.Category][]*PropertyMapper

	disabledBuildTime map[string]*PropertyMapper
	disabledRunTime   map[string]*PropertyMapper

	wildcards       []*PropertyMapper
	wildcardMapFrom map[string]*PropertyMapper

	dotTree        *wildcardTree
	underscoreTree *wildcardTree
	dashTree       *wildcardTree
}

// NewRegistry returns an empty registry
func NewRegistry(log logr.Logger) *Registry {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Registry{
		log:               log.WithName("mappers"),
		exact:             make(map[string][]*PropertyMapper),
		buildTime:         make(map[option.Category][]*PropertyMapper),
		runTime:           make(map[option.Category][]*PropertyMapper),
		disabledBuildTime: make(map[string]*PropertyMapper),
		disabledRunTime:   make(map[string]*PropertyMapper),
		wildcardMapFrom:   make(map[string]*PropertyMapper),
		dotTree:           newWildcardTree(),
		underscoreTree:    newWildcardTree(),
		dashTree:          newWildcardTree(),
	}
}

// AddAll registers mappers. Mappers sharing a name form are kept side by
// side; SanitizeDisabledMappers decides whether that is an error.
func (r *Registry) AddAll(mappers ...*PropertyMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range mappers {
		r.all = append(r.all, m)
		r.add(m)
		if m.IsBuildTime() {
			r.buildTime[m.Category()] = append(r.buildTime[m.Category()], m)
		} else {
			r.runTime[m.Category()] = append(r.runTime[m.Category()], m)
		}
	}
}

func (r *Registry) add(m *PropertyMapper) {
	if !m.HasWildcard() {
		forEachName(m, func(name string) {
			if len(r.exact[name]) > 0 {
				metrics.RecordDuplicateMapper()
				r.log.V(1).Info("duplicate mapper", "key", name, "option", m.Option().Key())
			}
			r.exact[name] = append(r.exact[name], m)
		})
		return
	}

	if m.MapFrom() != "" {
		r.wildcardMapFrom[m.MapFrom()] = m
	}
	r.wildcards = append(r.wildcards, m)
	r.dashTree.add(m, '-', strings.TrimPrefix(m.CLIFormat(), ArgPrefix))
	r.underscoreTree.add(m, '_', strings.ToUpper(strings.ReplaceAll(m.Option().Key(), "-", "_")))
	if m.To() != m.From() {
		if strings.HasPrefix(m.To(), NSPrefix) {
			r.dashTree.add(m, '-', strings.TrimPrefix(m.To(), NSPrefix))
		} else {
			r.dotTree.add(m, '.', m.To())
		}
	}
}

func (r *Registry) remove(m *PropertyMapper) {
	if m.HasWildcard() {
		r.wildcards = slices.DeleteFunc(r.wildcards, func(c *PropertyMapper) bool { return c == m })
		if r.wildcardMapFrom[m.MapFrom()] == m {
			delete(r.wildcardMapFrom, m.MapFrom())
		}
		r.dashTree.remove(m)
		r.underscoreTree.remove(m)
		r.dotTree.remove(m)
		return
	}
	forEachName(m, func(name string) {
		list := slices.DeleteFunc(r.exact[name], func(c *PropertyMapper) bool { return c == m })
		if len(list) == 0 {
			delete(r.exact, name)
			return
		}
		r.exact[name] = list
	})
}

// forEachName calls fn with every exact name form of m
func forEachName(m *PropertyMapper, fn func(name string)) {
	fn(m.From())
	if m.To() != m.From() {
		fn(m.To())
	}
	fn(m.CLIFormat())
	fn(m.EnvVarFormat())
}

// Get returns the mappers registered for key in any of its forms. Exact
// names take precedence over wildcard matches.
func (r *Registry) Get(key string) []*PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(key)
}

func (r *Registry) get(key string) []*PropertyMapper {
	if list := r.exact[key]; len(list) > 0 {
		return slices.Clone(list)
	}
	return r.findWildcards(key)
}

func (r *Registry) findWildcards(key string) []*PropertyMapper {
	if key == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(key, ArgPrefix):
		return r.dashTree.find(key, len(ArgPrefix), '-')
	case unicode.IsUpper(rune(key[0])):
		return r.underscoreTree.find(key, len(EnvPrefix), '_')
	case strings.HasPrefix(key, NSPrefix):
		return r.dashTree.find(key, len(NSPrefix), '-')
	default:
		return r.dotTree.find(key, 0, '.')
	}
}

// Mapper returns the mapper of a property, ignoring a profile prefix. When
// several mappers share the name the first registered one is used.
func (r *Registry) Mapper(name string) *PropertyMapper {
	return r.MapperInCategory(name, -1)
}

// MapperInCategory is like Mapper but only considers mappers of category c.
// A negative category matches all.
func (r *Registry) MapperInCategory(name string, c option.Category) *PropertyMapper {
	name = stripProfile(name)
	mappers := r.Get(name)
	if c >= 0 {
		mappers = slices.DeleteFunc(mappers, func(m *PropertyMapper) bool { return m.Category() != c })
	}
	switch len(mappers) {
	case 0:
		return nil
	case 1:
		return mappers[0]
	default:
		r.log.V(1).Info("duplicated mappers for key, using the first found", "key", name)
		return mappers[0]
	}
}

// DisabledMapper returns the disabled mapper registered for name, looking
// at build-time mappers first
func (r *Registry) DisabledMapper(name string) *PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.disabledBuildTime[name]; ok {
		return m
	}
	return r.disabledRunTime[name]
}

// IsDisabledMapper reports whether name belongs to a disabled mapper and to
// no enabled one
func (r *Registry) IsDisabledMapper(name string) bool {
	name = stripProfile(name)
	return r.DisabledMapper(name) != nil && r.Mapper(name) == nil
}

// MaskValue hides value when it comes from a keystore source or belongs to
// a masked option
func (r *Registry) MaskValue(property, value, sourceName string) string {
	if sourceName != "" && config.IsKeystoreSource(sourceName) {
		return ValueMask
	}
	if m := r.Mapper(property); m != nil && m.IsMasked() {
		return ValueMask
	}
	return value
}

// BuildTimeMappers returns the enabled build-time mappers per category
func (r *Registry) BuildTimeMappers() map[option.Category][]*PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneStage(r.buildTime)
}

// RunTimeMappers returns the enabled run-time mappers per category
func (r *Registry) RunTimeMappers() map[option.Category][]*PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneStage(r.runTime)
}

func cloneStage(stage map[option.Category][]*PropertyMapper) map[option.Category][]*PropertyMapper {
	out := make(map[option.Category][]*PropertyMapper, len(stage))
	for c, list := range stage {
		if len(list) > 0 {
			out[c] = slices.Clone(list)
		}
	}
	return out
}

// Mappers returns every enabled mapper in registration order
func (r *Registry) Mappers() []*PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.all)
}

// WildcardMappers returns the mappers of wildcard options
func (r *Registry) WildcardMappers() []*PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.wildcards)
}

// WildcardMappedFrom returns the wildcard mapper whose values derive from
// the option with key parent, e.g. log-level-<category> for log-level
func (r *Registry) WildcardMappedFrom(parent string) *PropertyMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.wildcardMapFrom[parent]
}

// MapEnvName maps a KC_ environment variable to the kc. property of its
// option, wildcard instances included. ok is false for unknown variables.
func (r *Registry) MapEnvName(env string) (string, bool) {
	for _, m := range r.Get(env) {
		if !m.HasWildcard() {
			if m.EnvVarFormat() == env {
				return m.From(), true
			}
			continue
		}
		if key, ok := m.envVarKey(env); ok {
			return m.FromFor(key), true
		}
	}
	return "", false
}

// SanitizeDisabledMappers removes the mappers whose enabled condition does
// not hold for env and checks that no name is claimed by two mappers the
// command can use. It is a no-op without a parsed command.
func (r *Registry) SanitizeDisabledMappers(env *Environment) error {
	if env == nil || env.Command == "" {
		return nil
	}

	// conditions resolve configuration through the registry, so they are
	// evaluated before the registry is locked for writing
	disabled := make(map[*PropertyMapper]struct{})
	for _, m := range r.Mappers() {
		if !m.IsEnabled(env) {
			disabled[m] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sanitize(r.buildTime, r.disabledBuildTime, disabled)
	r.sanitize(r.runTime, r.disabledRunTime, disabled)
	metrics.SetDisabledMappers(countDistinct(r.disabledBuildTime), countDistinct(r.disabledRunTime))

	return r.checkDuplicates(env)
}

func (r *Registry) sanitize(stage map[option.Category][]*PropertyMapper, disabled map[string]*PropertyMapper, off map[*PropertyMapper]struct{}) {
	for cat, list := range stage {
		stage[cat] = slices.DeleteFunc(list, func(m *PropertyMapper) bool {
			if _, ok := off[m]; !ok {
				return false
			}
			r.remove(m)
			r.all = slices.DeleteFunc(r.all, func(other *PropertyMapper) bool { return other == m })
			forEachName(m, func(name string) { disabled[name] = m })
			r.log.V(1).Info("disabled mapper", "option", m.Option().Key())
			return true
		})
	}
}

func countDistinct(disabled map[string]*PropertyMapper) int {
	seen := make(map[*PropertyMapper]struct{}, len(disabled))
	for _, m := range disabled {
		seen[m] = struct{}{}
	}
	return len(seen)
}

func (r *Registry) checkDuplicates(env *Environment) error {
	keys := make([]string, 0, len(r.exact))
	for k := range r.exact {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tolerated := env.Command == CommandShowConfig
	for _, k := range keys {
		var usable []*PropertyMapper
		for _, m := range r.exact[k] {
			if env.allows(m.Category()) {
				usable = append(usable, m)
			}
		}
		if len(usable) < 2 {
			continue
		}
		anyBuildTime := slices.ContainsFunc(usable, (*PropertyMapper).IsBuildTime)
		if !tolerated && (!env.IsBuildPhase() || anyBuildTime) {
			return &PropertyError{Key: k, Message: fmt.Sprintf("Duplicated mapper for key '%s'.", k)}
		}
	}
	return nil
}
