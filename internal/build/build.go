// Package build records the build-time options a server was built with and
// compares later configurations against them.
package build

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/config/source"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

// DefaultPath is where the build configuration is persisted
const DefaultPath = "data/build/persisted.yaml"

// ErrNotBuilt is returned when no build configuration was persisted yet
var ErrNotBuilt = errors.New("no persisted build configuration found, run build first")

// Properties returns the values of all build-time options known to cfg,
// defaults included, keyed by their kc. property. Selected and enabled SPI
// providers are build-time properties as well.
func Properties(cfg *config.Config, reg *mapper.Registry) (map[string]string, error) {
	values := make(map[string]string)
	add := func(name string) error {
		v, err := cfg.Value(name)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		if v.Present() {
			values[name] = v.Value
		}
		return nil
	}

	for _, name := range buildTimeNames(cfg, reg) {
		if err := add(name); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func buildTimeNames(cfg *config.Config, reg *mapper.Registry) []string {
	var names []string
	for _, mappers := range reg.BuildTimeMappers() {
		for _, m := range mappers {
			if !m.HasWildcard() {
				names = append(names, m.From())
				continue
			}
			for _, key := range m.WildcardKeys(cfg) {
				names = append(names, m.FromFor(key))
			}
		}
	}
	for _, name := range cfg.Names() {
		if mapper.IsSpiBuildTimeProperty(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Persist writes the build-time properties of cfg to w as YAML
func Persist(w io.Writer, cfg *config.Config, reg *mapper.Registry) error {
	values, err := Properties(cfg, reg)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal build configuration: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write build configuration: %w", err)
	}
	return nil
}

// PersistFile writes the build configuration to path, creating its directory
func PersistFile(path string, cfg *config.Config, reg *mapper.Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create build configuration: %w", err)
	}
	defer f.Close()
	return Persist(f, cfg, reg)
}

// LoadPersisted reads a persisted build configuration as a config source
func LoadPersisted(path string) (*config.MapSource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read build configuration: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return source.NewPersisted(values), nil
}

// ChangedBuildTimeOptions lists the build-time properties explicitly set in
// cfg to a value other than the persisted one. cfg must not include the
// persisted source itself.
func ChangedBuildTimeOptions(cfg *config.Config, persisted config.Source, reg *mapper.Registry) ([]string, error) {
	var changed []string
	for _, name := range buildTimeNames(cfg, reg) {
		v, err := cfg.Value(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		if !v.Present() || v.SourceOrdinal == 0 {
			continue
		}
		if old, _ := persisted.Get(name); old != v.Value {
			changed = append(changed, name)
		}
	}
	return slices.Compact(changed), nil
}

// IgnoredRunTimeOptions lists the run-time properties set in cfg. They
// have no effect on a build.
func IgnoredRunTimeOptions(cfg *config.Config, reg *mapper.Registry) []string {
	var ignored []string
	for _, name := range cfg.PropertyNames() {
		if _, _, profiled := config.SplitProfile(name); profiled || !strings.HasPrefix(name, mapper.NSPrefix) {
			continue
		}
		if m := reg.Mapper(name); m != nil {
			if m.IsRunTime() {
				ignored = append(ignored, name)
			}
			continue
		}
		if strings.HasPrefix(name, mapper.SPIPrefix) && !mapper.IsSpiBuildTimeProperty(name) {
			ignored = append(ignored, name)
		}
	}
	sort.Strings(ignored)
	return slices.Compact(ignored)
}

// IgnoredMessage is the warning printed for IgnoredRunTimeOptions
func IgnoredMessage(names []string) string {
	return "The following run time options were found, but will be ignored during build time: " + strings.Join(names, ", ")
}

// ChangedMessage is the error reported for ChangedBuildTimeOptions
func ChangedMessage(names []string) string {
	return "The following build time options have values that differ from what is persisted - the new values will NOT be used until another build is run: " + strings.Join(names, ", ")
}

