package mapper

import (
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

// Resolve computes the value of name, which is the option's own property,
// its mapped property or a wildcard instance of either. The option's own
// value wins over the parent option's value, which wins over the default.
// A nil result means the mapper has nothing to say about name and the
// lower interceptors decide.
func (m *PropertyMapper) Resolve(ctx config.Context, name string) *config.Value {
	key := m.mappedKey(name)
	from := m.FromFor(key)

	v := trimValue(ctx.Proceed(from))

	parent := false
	if !v.Present() && m.mapFrom != "" {
		v = ctx.Restart(NSPrefix + m.mapFrom)
		parent = true
	}

	var resolved *config.Value
	if v.Present() {
		resolved = m.transform(ctx, name, key, v, parent)
	} else {
		def, _ := m.opt.DefaultValue()
		resolved = m.transform(ctx, name, key, &config.Value{Name: name, Value: def, RawValue: def}, false)
	}
	if resolved != nil {
		return resolved
	}
	return ctx.Proceed(name)
}

func (m *PropertyMapper) transform(ctx config.Context, name, key string, v *config.Value, parent bool) *config.Value {
	value := v.Value
	mapped := value

	transformed := false
	fn := m.transformer
	if parent {
		fn = m.parentTransformer
	}
	if fn != nil && (name != m.From() || parent) {
		nameForMapper := name
		if key != "" {
			nameForMapper = key
		}
		mapped = fn(nameForMapper, value, ctx)
		transformed = true
	}

	// defaults and transformer output never went through expansion
	if (transformed || v.SourceName == "") && strings.Contains(mapped, "$") {
		expanded, err := config.ExpandInScope(ctx.Scope(), name, mapped, func(ref string) (string, bool) {
			r := ctx.Proceed(ref)
			return r.String(), r.Present()
		})
		if err != nil {
			ctx.Scope().Fail(err)
			return nil
		}
		mapped = expanded
	}

	if value == "" && mapped == "" {
		return nil
	}
	if !transformed && name == v.Name {
		return v
	}

	// a zero ordinal marks the value as derived rather than set by the user
	return &config.Value{
		Name:       name,
		Value:      mapped,
		RawValue:   value,
		SourceName: v.SourceName,
	}
}

func trimValue(v *config.Value) *config.Value {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(v.Value)
	if trimmed == v.Value {
		return v
	}
	return v.WithValue(trimmed)
}
