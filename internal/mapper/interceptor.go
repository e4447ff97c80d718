package mapper

import (
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// InterceptorPriority runs property mapping before expression expansion
const InterceptorPriority = 4990

// Interceptor maps Keycloak options to the properties they configure while
// values are resolved
type Interceptor struct {
	Registry *Registry
	Env      *Environment
}

// NewInterceptor returns the mapping interceptor of reg
func NewInterceptor(reg *Registry, env *Environment) *Interceptor {
	return &Interceptor{Registry: reg, Env: env}
}

func (i *Interceptor) Priority() int {
	return InterceptorPriority
}

func (i *Interceptor) GetValue(ctx config.Context, name string) *config.Value {
	if ctx.Scope().MappingDisabled() {
		return ctx.Proceed(name)
	}

	name = stripProfile(name)
	m := i.Registry.Mapper(name)

	// Run-time properties are not resolved while build-time options are
	// baked in. Logging is needed by the build itself.
	if ctx.Scope().InFlight() <= 1 && i.Env.IsRebuild() && isKeycloakRunTime(name, m) && !strings.HasPrefix(name, "quarkus.log.") {
		metrics.RecordResolution(metrics.ResultSkipped)
		return &config.Value{Name: name}
	}

	if m == nil {
		if i.Registry.IsDisabledMapper(name) {
			metrics.RecordResolution(metrics.ResultDisabled)
		} else {
			metrics.RecordResolution(metrics.ResultUnmapped)
		}
		return ctx.Proceed(name)
	}
	if m.IsRunTime() && i.Env.IsRebuild() {
		metrics.RecordResolution(metrics.ResultSkipped)
		return &config.Value{Name: name}
	}

	metrics.RecordResolution(metrics.ResultMapped)
	return m.Resolve(ctx, name)
}

func isKeycloakRunTime(name string, m *PropertyMapper) bool {
	if m == nil {
		return strings.HasPrefix(name, NSPrefix) && !IsSpiBuildTimeProperty(name)
	}
	return m.IsRunTime()
}

// IterateNames adds the mapped property of every option found below, the
// wildcard instances implied by parent options and the properties of
// options that only have a default value
func (i *Interceptor) IterateNames(ctx config.Context) []string {
	remaining := make(map[*PropertyMapper]struct{})
	for _, m := range i.Registry.Mappers() {
		remaining[m] = struct{}{}
	}
	filterRunTime := i.Env.IsRebuild()

	var names []string
	for _, name := range ctx.IterateNames() {
		m := i.Registry.Mapper(name)
		if m == nil {
			names = append(names, name)
			continue
		}
		delete(remaining, m)
		if filterRunTime && m.IsRunTime() {
			continue
		}

		if !m.HasWildcard() {
			names = appendDistinct(names, name, m.To())
			if w := i.Registry.WildcardMappedFrom(m.Option().Key()); w != nil {
				if v := ctx.Proceed(name); v.Present() {
					names = append(names, w.ToFromParent(v.Value)...)
				}
			}
			continue
		}

		key, ok := m.WildcardKey(name)
		if !ok {
			names = append(names, name)
			continue
		}
		names = appendDistinct(names, name, m.ToFor(key))
	}

	// keep registration order for the defaults
	for _, m := range i.Registry.Mappers() {
		if _, ok := remaining[m]; !ok {
			continue
		}
		if _, hasDefault := m.Option().DefaultValue(); !hasDefault || m.HasWildcard() || m.Category() == option.CategoryConfig {
			continue
		}
		if filterRunTime && m.IsRunTime() {
			continue
		}
		names = appendDistinct(names, m.From(), m.To())
	}
	return names
}

func appendDistinct(names []string, name, to string) []string {
	names = append(names, name)
	if to != "" && to != name {
		names = append(names, to)
	}
	return names
}
