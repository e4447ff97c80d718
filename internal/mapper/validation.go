package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

// Validate checks the configuration against the mappers of reg for the
// command described by env. Every explicitly set value is validated,
// required options must be set, disabled options must not be, and
// command line options must be known. All failures are returned together.
func Validate(cfg *config.Config, reg *Registry, env *Environment) error {
	var errs []error
	fail := func(key string, err error) {
		metrics.RecordValidationError(key)
		errs = append(errs, err)
	}

	for _, m := range reg.Mappers() {
		if !env.allows(m.Category()) || !m.IsEnabled(env) {
			continue
		}

		if m.HasWildcard() {
			for _, key := range m.WildcardKeys(cfg) {
				v, err := cfg.Value(m.FromFor(key))
				if err != nil {
					fail(m.Option().Key(), err)
					continue
				}
				if explicit(v) {
					if err := m.Validate(env, v); err != nil {
						fail(m.Option().Key(), err)
					}
				}
			}
			continue
		}

		v, err := cfg.Value(m.From())
		if err != nil {
			fail(m.Option().Key(), err)
			continue
		}
		switch {
		case explicit(v):
			if meta := m.Option().DeprecatedMetadata(); meta != nil {
				reg.log.Info("option is deprecated", "option", m.CLIFormat(), "note", meta.Note, "replacedBy", meta.NewOptions)
			}
			if err := m.Validate(env, v); err != nil {
				fail(m.Option().Key(), err)
			}
		case m.IsRequired(env):
			fail(m.Option().Key(), newPropertyError(m.Option().Key(), withReason(fmt.Sprintf("Missing option '%s'", m.CLIFormat()), m.RequiredWhen())))
		}
	}

	errs = append(errs, disabledOptions(cfg, reg)...)
	errs = append(errs, unknownOptions(cfg, reg)...)
	return errors.Join(errs...)
}

// explicit reports whether v was set by the user rather than derived from
// a default or a parent option
func explicit(v *config.Value) bool {
	return v.Present() && v.SourceName != "" && v.SourceOrdinal > 0
}

func withReason(message, reason string) string {
	if reason == "" {
		return message
	}
	return message + ". " + reason
}

func disabledOptions(cfg *config.Config, reg *Registry) []error {
	reported := make(map[*PropertyMapper]struct{})
	var errs []error
	for _, name := range sortedNames(cfg) {
		name = stripProfile(name)
		if !strings.HasPrefix(name, NSPrefix) || !reg.IsDisabledMapper(name) {
			continue
		}
		m := reg.DisabledMapper(name)
		if _, dup := reported[m]; dup {
			continue
		}
		reported[m] = struct{}{}
		metrics.RecordValidationError(m.Option().Key())
		errs = append(errs, newPropertyError(m.Option().Key(), withReason(fmt.Sprintf("Disabled option: '%s'", m.CLIFormat()), m.EnabledWhen())))
	}
	return errs
}

func unknownOptions(cfg *config.Config, reg *Registry) []error {
	var errs []error
	for _, src := range cfg.Sources() {
		if !config.IsCLISource(src.Name()) {
			continue
		}
		names := src.Names()
		sort.Strings(names)
		for _, name := range names {
			if !strings.HasPrefix(name, NSPrefix) || strings.HasPrefix(name, SPIPrefix) {
				continue
			}
			if reg.Mapper(name) != nil || reg.DisabledMapper(name) != nil {
				continue
			}
			metrics.RecordValidationError(name)
			errs = append(errs, newPropertyError("", fmt.Sprintf("Unknown option: '%s'", ToCLIFormat(name))))
		}
	}
	return errs
}

func sortedNames(cfg *config.Config) []string {
	names := cfg.PropertyNames()
	sort.Strings(names)
	return names
}
