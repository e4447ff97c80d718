// Package profile resolves which server features are enabled.
package profile

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// FeatureType tells whether a feature is on by default
type FeatureType int

const (
	FeatureDefault FeatureType = iota
	FeatureDisabledByDefault
	FeaturePreview
	FeatureExperimental
	FeatureDeprecated
)

// PreviewKey enables every preview feature at once
const PreviewKey = "preview"

// Feature is a named server capability that can be switched on or off
type Feature struct {
	Key  string
	Type FeatureType
}

var features = []Feature{
	{Key: "account", Type: FeatureDefault},
	{Key: "account-api", Type: FeatureDefault},
	{Key: "admin-api", Type: FeatureDefault},
	{Key: "authorization", Type: FeatureDefault},
	{Key: "client-policies", Type: FeatureDefault},
	{Key: "docker", Type: FeatureDisabledByDefault},
	{Key: "fips", Type: FeatureDisabledByDefault},
	{Key: "impersonation", Type: FeatureDefault},
	{Key: "linkedin-oauth", Type: FeatureDeprecated},
	{Key: "opentelemetry", Type: FeaturePreview},
	{Key: "organization", Type: FeatureDefault},
	{Key: "passkeys", Type: FeaturePreview},
	{Key: "persistent-user-sessions", Type: FeatureDefault},
	{Key: "token-exchange", Type: FeaturePreview},
	{Key: "dynamic-scopes", Type: FeatureExperimental},
}

// Features returns the known features
func Features() []Feature {
	return slices.Clone(features)
}

// FeatureKeys returns the keys of all known features, sorted
func FeatureKeys() []string {
	keys := make([]string, 0, len(features))
	for _, f := range features {
		keys = append(keys, f.Key)
	}
	sort.Strings(keys)
	return keys
}

func lookup(key string) (Feature, bool) {
	for _, f := range features {
		if f.Key == key {
			return f, true
		}
	}
	return Feature{}, false
}

// Checker answers whether a feature is enabled
type Checker interface {
	IsFeatureEnabled(key string) bool
}

// Profile is the resolved set of enabled features
type Profile struct {
	enabled map[string]bool
}

// New resolves a profile from the explicitly enabled and disabled features.
// Unknown feature keys are rejected.
func New(enabled, disabled []string) (*Profile, error) {
	p := &Profile{enabled: make(map[string]bool)}
	for _, f := range features {
		p.enabled[f.Key] = f.Type == FeatureDefault
	}

	var unknown []string
	for _, key := range enabled {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if key == PreviewKey {
			for _, f := range features {
				if f.Type == FeaturePreview {
					p.enabled[f.Key] = true
				}
			}
			continue
		}
		if _, ok := lookup(key); !ok {
			unknown = append(unknown, key)
			continue
		}
		p.enabled[key] = true
	}
	for _, key := range disabled {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := lookup(key); !ok {
			unknown = append(unknown, key)
			continue
		}
		p.enabled[key] = false
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown features: %s", strings.Join(unknown, ", "))
	}
	return p, nil
}

// IsFeatureEnabled reports whether the feature is enabled. Unknown features are disabled.
func (p *Profile) IsFeatureEnabled(key string) bool {
	if p == nil {
		return false
	}
	return p.enabled[key]
}

// EnabledFeatures returns the keys of the enabled features, sorted
func (p *Profile) EnabledFeatures() []string {
	var keys []string
	for k, v := range p.enabled {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Static is a Checker backed by a fixed set of features
type Static map[string]bool

func (s Static) IsFeatureEnabled(key string) bool {
	return s[key]
}

// Properties reads raw configuration properties
type Properties interface {
	RawValue(name string) (string, bool)
}

// FromConfig resolves the profile from the kc.features and
// kc.features-disabled properties
func FromConfig(props Properties) (*Profile, error) {
	enabled, _ := props.RawValue("kc.features")
	disabled, _ := props.RawValue("kc.features-disabled")
	p, err := New(splitList(enabled), splitList(disabled))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve feature profile: %w", err)
	}
	return p, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
