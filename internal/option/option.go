// Package option defines the catalogue of Keycloak configuration options.
//
// An Option is the identity of a configurable setting: its key, value type,
// category, default and the values it accepts. Options are immutable once
// built and are registered in a Registry that rejects duplicate keys.
package option

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Type is the value type of an option
type Type int

const (
	TypeString Type = iota
	TypeBool
	TypeInt
	TypeEnum
	TypeList
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	default:
		return "string"
	}
}

// WildcardPlaceholder matches the placeholder segment of a wildcard key,
// e.g. <spi> in provider-spi-<spi>.
var WildcardPlaceholder = regexp.MustCompile(`<[^>]+>`)

var (
	// ErrMultipleWildcards is returned when an option key contains more than one placeholder
	ErrMultipleWildcards = errors.New("option key contains more than one wildcard placeholder")

	// ErrEmptyKey is returned when an option is built without a key
	ErrEmptyKey = errors.New("option key must not be empty")
)

// DeprecatedMetadata describes why an option is deprecated and what replaces it
type DeprecatedMetadata struct {
	Note       string
	NewOptions []string
}

// Option is a named, typed configuration setting
type Option struct {
	key             string
	typ             Type
	category        Category
	description     string
	defaultValue    string
	hasDefault      bool
	expectedValues  []string
	strict          bool
	caseInsensitive bool
	buildTime       bool
	hidden          bool
	deprecated      *DeprecatedMetadata
}

func (o *Option) Key() string {
	return o.key
}

func (o *Option) Type() Type {
	return o.typ
}

func (o *Option) Category() Category {
	return o.category
}

func (o *Option) Description() string {
	return o.description
}

// DefaultValue returns the default value and whether one is set
func (o *Option) DefaultValue() (string, bool) {
	return o.defaultValue, o.hasDefault
}

// ExpectedValues returns a copy of the expected values
func (o *Option) ExpectedValues() []string {
	return slices.Clone(o.expectedValues)
}

// IsStrictExpectedValues reports whether only expected values are accepted
func (o *Option) IsStrictExpectedValues() bool {
	return o.strict
}

func (o *Option) IsCaseInsensitiveExpectedValues() bool {
	return o.caseInsensitive
}

func (o *Option) IsBuildTime() bool {
	return o.buildTime
}

func (o *Option) IsRunTime() bool {
	return !o.buildTime
}

func (o *Option) IsHidden() bool {
	return o.hidden
}

// DeprecatedMetadata returns the deprecation metadata, or nil
func (o *Option) DeprecatedMetadata() *DeprecatedMetadata {
	return o.deprecated
}

// HasWildcard reports whether the key contains a wildcard placeholder
func (o *Option) HasWildcard() bool {
	return HasWildcard(o.key)
}

func (o *Option) String() string {
	return o.key
}

// HasWildcard reports whether key contains a wildcard placeholder
func HasWildcard(key string) bool {
	return WildcardPlaceholder.MatchString(key)
}

// SplitWildcard splits key around its single placeholder. ok is false
// when the key has no placeholder.
func SplitWildcard(key string) (prefix, suffix string, ok bool) {
	loc := WildcardPlaceholder.FindStringIndex(key)
	if loc == nil {
		return key, "", false
	}
	return key[:loc[0]], key[loc[1]:], true
}

// ReplaceWildcard substitutes value for the placeholder of key
func ReplaceWildcard(key, value string) string {
	prefix, suffix, ok := SplitWildcard(key)
	if !ok {
		return key
	}
	return prefix + value + suffix
}

// Builder builds an Option
type Builder struct {
	opt Option
}

// New starts building an option with the given key and type
func New(key string, typ Type) *Builder {
	return &Builder{opt: Option{
		key:      key,
		typ:      typ,
		category: CategoryGeneral,
		strict:   true,
	}}
}

func (b *Builder) Category(c Category) *Builder {
	b.opt.category = c
	return b
}

func (b *Builder) Description(d string) *Builder {
	b.opt.description = d
	return b
}

// Default sets the default value in its string form
func (b *Builder) Default(v string) *Builder {
	b.opt.defaultValue = v
	b.opt.hasDefault = true
	return b
}

func (b *Builder) ExpectedValues(values ...string) *Builder {
	b.opt.expectedValues = slices.Clone(values)
	return b
}

// Strict sets whether values outside the expected values are rejected
func (b *Builder) Strict(strict bool) *Builder {
	b.opt.strict = strict
	return b
}

func (b *Builder) CaseInsensitive() *Builder {
	b.opt.caseInsensitive = true
	return b
}

func (b *Builder) BuildTime(buildTime bool) *Builder {
	b.opt.buildTime = buildTime
	return b
}

func (b *Builder) Hidden() *Builder {
	b.opt.hidden = true
	return b
}

func (b *Builder) Deprecated(meta DeprecatedMetadata) *Builder {
	b.opt.deprecated = &meta
	return b
}

// Build validates and returns the option
func (b *Builder) Build() (*Option, error) {
	opt := b.opt
	if strings.TrimSpace(opt.key) == "" {
		return nil, ErrEmptyKey
	}
	if n := len(WildcardPlaceholder.FindAllStringIndex(opt.key, -1)); n > 1 {
		return nil, fmt.Errorf("%w: %q has %d", ErrMultipleWildcards, opt.key, n)
	}
	if opt.typ == TypeBool && len(opt.expectedValues) == 0 {
		opt.expectedValues = []string{"true", "false"}
	}
	opt.expectedValues = slices.Clone(opt.expectedValues)
	return &opt, nil
}

// MustBuild is like Build but panics on error. It is meant for the static catalogue.
func (b *Builder) MustBuild() *Option {
	opt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return opt
}
