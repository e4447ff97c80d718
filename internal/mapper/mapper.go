// Package mapper translates Keycloak options into the properties the
// server runtime reads.
//
// Every option has a PropertyMapper that knows the option's external
// names (kc.db, --db, KC_DB), the property it maps to
// (quarkus.datasource.db-kind) and how to transform, default and validate
// its value. Mappers are indexed by a Registry and consulted during
// resolution by the mapping Interceptor of the configuration chain.
package mapper

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// wildcardValue matches the concrete part of a wildcard instance, e.g.
// io.quarkus in log-level-io.quarkus
const wildcardValue = `([\\.a-zA-Z0-9]+)`

// ValueMapper transforms a value. name is the requested property, or the
// concrete wildcard value for wildcard options. An empty result means absent.
type ValueMapper func(name, value string, ctx config.Context) string

// Validator checks a value set for the mapper's option
type Validator func(m *PropertyMapper, v *config.Value, env *Environment) error

// PropertyMapper maps one option to the property it configures
type PropertyMapper struct {
	opt               *option.Option
	to                string
	transformer       ValueMapper
	mapFrom           string
	parentTransformer ValueMapper
	masked            bool
	paramLabel        string
	description       string
	cliFormat         string
	envVarFormat      string

	enabled      Condition
	enabledWhen  string
	required     Condition
	requiredWhen string
	validator    Validator

	wildcardKeysTransformer func(keys []string) []string
	wildcardKeysFromParent  func(parentValue string) []string

	fromPattern *regexp.Regexp
	envPattern  *regexp.Regexp
	toPattern   *regexp.Regexp
}

// Option returns the option the mapper was built from
func (m *PropertyMapper) Option() *option.Option {
	return m.opt
}

// From is the kc. property of the option, e.g. kc.db
func (m *PropertyMapper) From() string {
	return NSPrefix + m.opt.Key()
}

// FromFor instantiates From for a concrete wildcard value
func (m *PropertyMapper) FromFor(wildcardKey string) string {
	if !m.HasWildcard() || wildcardKey == "" {
		return m.From()
	}
	return NSPrefix + option.ReplaceWildcard(m.opt.Key(), wildcardKey)
}

// To is the property the option maps to
func (m *PropertyMapper) To() string {
	return m.to
}

// ToFor instantiates To for a concrete wildcard value
func (m *PropertyMapper) ToFor(wildcardKey string) string {
	if !m.HasWildcard() || wildcardKey == "" {
		return m.to
	}
	return option.ReplaceWildcard(m.to, wildcardKey)
}

// CLIFormat is the command line flag, e.g. --db
func (m *PropertyMapper) CLIFormat() string {
	return m.cliFormat
}

// CLIFormatFor instantiates CLIFormat for a concrete wildcard value
func (m *PropertyMapper) CLIFormatFor(wildcardKey string) string {
	return ToCLIFormat(m.FromFor(wildcardKey))
}

// EnvVarFormat is the environment variable, e.g. KC_DB
func (m *PropertyMapper) EnvVarFormat() string {
	return m.envVarFormat
}

// EnvVarFormatFor instantiates EnvVarFormat for a concrete wildcard value
func (m *PropertyMapper) EnvVarFormatFor(wildcardKey string) string {
	return ToEnvVarFormat(m.FromFor(wildcardKey))
}

// MapFrom returns the key of the parent option, or ""
func (m *PropertyMapper) MapFrom() string {
	return m.mapFrom
}

// ParamLabel is the value placeholder shown in help, e.g. <vendor>
func (m *PropertyMapper) ParamLabel() string {
	return m.paramLabel
}

// Description returns the help text of the option
func (m *PropertyMapper) Description() string {
	return m.description
}

// Category returns the category of the option
func (m *PropertyMapper) Category() option.Category {
	return m.opt.Category()
}

// IsBuildTime reports whether the option is fixed by a build
func (m *PropertyMapper) IsBuildTime() bool {
	return m.opt.IsBuildTime()
}

// IsRunTime reports whether the option is read on every start
func (m *PropertyMapper) IsRunTime() bool {
	return m.opt.IsRunTime()
}

// IsHidden reports whether the option is left out of help output
func (m *PropertyMapper) IsHidden() bool {
	return m.opt.IsHidden()
}

// IsMasked reports whether values of the option are sensitive
func (m *PropertyMapper) IsMasked() bool {
	return m.masked
}

// IsList reports whether the option takes a comma separated list
func (m *PropertyMapper) IsList() bool {
	return m.opt.Type() == option.TypeList
}

// HasWildcard reports whether the option key has a <...> placeholder
func (m *PropertyMapper) HasWildcard() bool {
	return m.fromPattern != nil
}

// IsEnabled evaluates the enabled condition of the mapper for env
func (m *PropertyMapper) IsEnabled(env *Environment) bool {
	return m.enabled(env)
}

// EnabledWhen returns "Available only when ..." or "" when the mapper is
// not conditional
func (m *PropertyMapper) EnabledWhen() string {
	if strings.TrimSpace(m.enabledWhen) == "" {
		return ""
	}
	return "Available only when " + m.enabledWhen
}

// IsRequired evaluates the required condition of the mapper for env
func (m *PropertyMapper) IsRequired(env *Environment) bool {
	return m.required(env)
}

// RequiredWhen returns "Required when ..." or ""
func (m *PropertyMapper) RequiredWhen() string {
	if strings.TrimSpace(m.requiredWhen) == "" {
		return ""
	}
	return "Required when " + m.requiredWhen
}

// WildcardKey extracts the concrete wildcard value from a property name in
// any of its forms. ok is false for non-wildcard mappers and names that do
// not match.
func (m *PropertyMapper) WildcardKey(name string) (string, bool) {
	if !m.HasWildcard() {
		return "", false
	}
	if k, ok := submatch(m.fromPattern, name); ok {
		return k, true
	}
	if k, ok := m.envVarKey(name); ok {
		return k, true
	}
	return submatch(m.toPattern, name)
}

// envVarKey extracts the wildcard value from an environment variable.
// Underscores become dots: KC_LOG_LEVEL_IO_QUARKUS gives io.quarkus.
func (m *PropertyMapper) envVarKey(name string) (string, bool) {
	k, ok := submatch(m.envPattern, name)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(strings.ToLower(k), "_", "."), true
}

// mappedKey extracts the wildcard value from the from or to form of a name
func (m *PropertyMapper) mappedKey(name string) string {
	if k, ok := submatch(m.fromPattern, name); ok {
		return k
	}
	k, _ := submatch(m.toPattern, name)
	return k
}

// MatchesWildcardOptionName reports whether name is an instance of the
// wildcard option in any of its forms
func (m *PropertyMapper) MatchesWildcardOptionName(name string) bool {
	if !m.HasWildcard() {
		return false
	}
	return m.fromPattern.MatchString(name) || m.envPattern.MatchString(name) ||
		(m.toPattern != nil && m.toPattern.MatchString(name))
}

// WildcardKeys returns the concrete values of the wildcard option that are
// currently set in any source
func (m *PropertyMapper) WildcardKeys(names config.NameLister) []string {
	if !m.HasWildcard() {
		return nil
	}
	seen := make(map[string]struct{})
	var keys []string
	for _, n := range names.PropertyNames() {
		k, ok := submatch(m.fromPattern, n)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if m.wildcardKeysTransformer != nil {
		keys = m.wildcardKeysTransformer(keys)
	}
	sort.Strings(keys)
	return keys
}

// ToWithWildcards returns the mapped property of every wildcard instance
// currently set
func (m *PropertyMapper) ToWithWildcards(names config.NameLister) []string {
	if m.toPattern == nil {
		return nil
	}
	var out []string
	for _, k := range m.WildcardKeys(names) {
		out = append(out, m.ToFor(k))
	}
	return out
}

// ToFromParent lists the mapped properties of the wildcard instances that
// the parent option's value implies, e.g. quarkus.log.category.io.quarkus.level
// for log-level=info,io.quarkus:debug
func (m *PropertyMapper) ToFromParent(parentValue string) []string {
	if m.wildcardKeysFromParent == nil || parentValue == "" {
		return nil
	}
	var out []string
	for _, k := range m.wildcardKeysFromParent(parentValue) {
		out = append(out, m.ToFor(k))
	}
	return out
}

func (m *PropertyMapper) String() string {
	return m.opt.Key()
}

func submatch(re *regexp.Regexp, s string) (string, bool) {
	if re == nil {
		return "", false
	}
	sm := re.FindStringSubmatch(s)
	if sm == nil {
		return "", false
	}
	return sm[1], true
}

// wildcardPattern compiles key into an anchored pattern whose single group
// captures the wildcard value
func wildcardPattern(prefix, key, group string) *regexp.Regexp {
	before, after, _ := option.SplitWildcard(key)
	return regexp.MustCompile("^" + prefix + regexp.QuoteMeta(before) + group + regexp.QuoteMeta(after) + "$")
}

// Builder builds a PropertyMapper
type Builder struct {
	opt                     *option.Option
	to                      string
	transformer             ValueMapper
	mapFrom                 string
	parentTransformer       ValueMapper
	masked                  bool
	paramLabel              string
	description             string
	enabled                 Condition
	enabledWhen             string
	required                Condition
	requiredWhen            string
	validator               Validator
	wildcardKeysTransformer func([]string) []string
	wildcardKeysFromParent  func(string) []string
}

// FromOption starts building the mapper of opt
func FromOption(opt *option.Option) *Builder {
	return &Builder{
		opt:         opt,
		description: opt.Description(),
		enabled:     always,
		required:    never,
		validator:   defaultValidator,
	}
}

// To sets the mapped property. It defaults to the option's own property.
func (b *Builder) To(to string) *Builder {
	b.to = to
	return b
}

// Transformer sets the transformer of the option's own value. It does not
// apply to values taken from the parent option.
func (b *Builder) Transformer(fn ValueMapper) *Builder {
	b.transformer = fn
	return b
}

// MapFrom uses the value of parent, transformed by fn, when the option
// itself is not set
func (b *Builder) MapFrom(parent *option.Option, fn ValueMapper) *Builder {
	b.mapFrom = parent.Key()
	b.parentTransformer = fn
	return b
}

// ParamLabel overrides the value placeholder shown in help
func (b *Builder) ParamLabel(label string) *Builder {
	b.paramLabel = label
	return b
}

// Masked marks the values of the option as sensitive
func (b *Builder) Masked() *Builder {
	b.masked = true
	return b
}

// EnabledWhen makes the mapper conditional. when describes the condition
// for humans.
func (b *Builder) EnabledWhen(cond Condition, when string) *Builder {
	b.enabled = cond
	b.enabledWhen = when
	return b
}

// RequiredWhen makes the option mandatory while cond holds
func (b *Builder) RequiredWhen(cond Condition, when string) *Builder {
	b.required = cond
	b.requiredWhen = strings.TrimSuffix(when, ".")
	return b
}

// Validator replaces the validation of single values
func (b *Builder) Validator(fn func(value string) error) *Builder {
	b.validator = func(m *PropertyMapper, v *config.Value, _ *Environment) error {
		return m.validateValues(v, func(_ *config.Value, s string) error {
			return fn(s)
		})
	}
	return b
}

// AddValidator runs fn after the current validation. Failures of both are
// reported together.
func (b *Builder) AddValidator(fn Validator) *Builder {
	current := b.validator
	b.validator = func(m *PropertyMapper, v *config.Value, env *Environment) error {
		var messages []string
		for _, validate := range []Validator{current, fn} {
			if err := validate(m, v, env); err != nil {
				messages = append(messages, err.Error())
			}
		}
		if len(messages) == 0 {
			return nil
		}
		return &PropertyError{Key: m.opt.Key(), Message: strings.Join(messages, ".\n")}
	}
	return b
}

// AddValidateEnabled rejects values while cond does not hold. Unlike
// EnabledWhen the option stays listed.
func (b *Builder) AddValidateEnabled(cond Condition, when string) *Builder {
	b.AddValidator(func(m *PropertyMapper, _ *config.Value, env *Environment) error {
		if !cond(env) {
			return newPropertyError(m.opt.Key(), m.opt.Key()+" available only when "+when)
		}
		return nil
	})
	b.description = fmt.Sprintf("%s Available only when %s.", b.description, when)
	return b
}

// WildcardKeysTransformer post-processes the keys found by WildcardKeys
func (b *Builder) WildcardKeysTransformer(fn func(keys []string) []string) *Builder {
	b.wildcardKeysTransformer = fn
	return b
}

// WildcardKeysFromParent derives wildcard instances from the value of the
// parent option set with MapFrom
func (b *Builder) WildcardKeysFromParent(fn func(parentValue string) []string) *Builder {
	b.wildcardKeysFromParent = fn
	return b
}

// Build validates and returns the mapper
func (b *Builder) Build() (*PropertyMapper, error) {
	m := &PropertyMapper{
		opt:                     b.opt,
		to:                      b.to,
		transformer:             b.transformer,
		mapFrom:                 b.mapFrom,
		parentTransformer:       b.parentTransformer,
		masked:                  b.masked,
		paramLabel:              b.paramLabel,
		description:             b.description,
		enabled:                 b.enabled,
		enabledWhen:             b.enabledWhen,
		required:                b.required,
		requiredWhen:            b.requiredWhen,
		validator:               b.validator,
		wildcardKeysTransformer: b.wildcardKeysTransformer,
		wildcardKeysFromParent:  b.wildcardKeysFromParent,
	}
	if m.to == "" {
		m.to = m.From()
	}
	if m.paramLabel == "" && b.opt.Type() == option.TypeBool {
		m.paramLabel = "true|false"
	}
	m.cliFormat = ToCLIFormat(b.opt.Key())
	m.envVarFormat = ToEnvVarFormat(m.From())

	if b.opt.HasWildcard() {
		m.fromPattern = wildcardPattern(`(?:--|kc\.)`, b.opt.Key(), wildcardValue)
		envKey := strings.ToUpper(strings.ReplaceAll(b.opt.Key(), "-", "_"))
		m.envPattern = wildcardPattern(EnvPrefix, envKey, `([_A-Z0-9]+)`)
		if b.to != "" {
			if !option.HasWildcard(b.to) {
				return nil, fmt.Errorf("%w: %s to %s", ErrWildcardTarget, b.opt.Key(), b.to)
			}
			m.toPattern = wildcardPattern("", b.to, wildcardValue)
		}
	}
	return m, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *PropertyMapper {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
