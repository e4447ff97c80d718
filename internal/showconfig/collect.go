// Package showconfig reports the effective Keycloak configuration together
// with the source of every value.
package showconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

// Filters accepted by Collect besides a profile name
const (
	FilterAll     = "all"
	FilterCurrent = "current"
)

// Entry is a single configured option
type Entry struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	// Profile is set for values that only apply to a profile
	Profile string `json:"profile,omitempty"`
}

// Collect lists the kc. options of cfg with their values and sources.
// filter is FilterCurrent for the values in effect, FilterAll to add the
// values set for every profile, or the name of a profile to only list the
// values set for it. Sensitive values are masked.
func Collect(cfg *config.Config, reg *mapper.Registry, filter string) ([]Entry, error) {
	if filter == "" {
		filter = FilterCurrent
	}

	var entries []Entry
	if filter == FilterAll || filter == FilterCurrent {
		current, err := currentEntries(cfg, reg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, current...)
	}
	if filter != FilterCurrent {
		entries = append(entries, profileEntries(cfg, reg, filter)...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Profile != entries[j].Profile {
			return entries[i].Profile < entries[j].Profile
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func currentEntries(cfg *config.Config, reg *mapper.Registry) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]struct{})
	for _, name := range cfg.Names() {
		if !strings.HasPrefix(name, mapper.NSPrefix) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		v, err := cfg.Value(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		if !v.Present() {
			continue
		}
		entries = append(entries, newEntry(reg, name, v.Value, v.SourceName, ""))
	}
	return entries, nil
}

// profileEntries reads profile specific values straight from the sources;
// resolving them would apply the active profile instead
func profileEntries(cfg *config.Config, reg *mapper.Registry, filter string) []Entry {
	var entries []Entry
	for _, name := range cfg.PropertyNames() {
		p, rest, ok := config.SplitProfile(name)
		if !ok || !strings.HasPrefix(rest, mapper.NSPrefix) {
			continue
		}
		if filter != FilterAll && p != filter {
			continue
		}
		for _, src := range cfg.Sources() {
			if value, found := src.Get(name); found && value != "" {
				entries = append(entries, newEntry(reg, rest, value, src.Name(), p))
				break
			}
		}
	}
	return entries
}

func newEntry(reg *mapper.Registry, name, value, sourceName, profile string) Entry {
	e := Entry{
		Name:    name,
		Value:   reg.MaskValue(name, value, sourceName),
		Source:  config.DisplayName(sourceName),
		Profile: profile,
	}
	if m := reg.Mapper(name); m != nil {
		e.Category = m.Category().Heading()
	}
	return e
}
