package mapper

import (
	"slices"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
	"github.com/Hostzero-GmbH/keycloak-config/internal/profile"
)

// Commands that change how mappers are sanitized and resolved
const (
	CommandBuild      = "build"
	CommandStart      = "start"
	CommandStartDev   = "start-dev"
	CommandShowConfig = "show-config"
)

// Environment describes the command being run. Mapper conditions read
// the feature profile and the configuration through it.
type Environment struct {
	// Command is the parsed command, empty when no command was parsed
	Command string
	// Rebuild is set while build-time options are being baked in
	Rebuild bool
	// RebuildCheck is set while checking whether a rebuild is needed
	RebuildCheck bool
	// AllowedCategories limits the option categories of the command; nil allows all
	AllowedCategories []option.Category
	Features          profile.Checker
	Config            *config.Config
}

// IsRebuild reports whether run-time properties must not be resolved
func (e *Environment) IsRebuild() bool {
	return e != nil && (e.Rebuild || e.RebuildCheck)
}

// IsBuildPhase reports whether the command bakes in build-time options
func (e *Environment) IsBuildPhase() bool {
	return e.IsRebuild() || (e != nil && e.Command == CommandBuild)
}

// IsFeatureEnabled asks the feature profile, false without one
func (e *Environment) IsFeatureEnabled(feature string) bool {
	return e != nil && e.Features != nil && e.Features.IsFeatureEnabled(feature)
}

// KcValue returns the resolved value of a kc. option, or ""
func (e *Environment) KcValue(key string) string {
	if e == nil || e.Config == nil {
		return ""
	}
	v, err := e.Config.KcValue(key)
	if err != nil {
		return ""
	}
	return v.String()
}

// OptionValue returns the resolved value of opt. Without a configuration
// the option's default is used.
func (e *Environment) OptionValue(opt *option.Option) string {
	if e == nil || e.Config == nil {
		def, _ := opt.DefaultValue()
		return def
	}
	return e.KcValue(opt.Key())
}

func (e *Environment) allows(c option.Category) bool {
	if e == nil || e.AllowedCategories == nil {
		return true
	}
	return slices.Contains(e.AllowedCategories, c)
}

// Condition is evaluated against the environment, e.g. to tell whether
// a mapper is enabled
type Condition func(env *Environment) bool

// FeatureEnabled is a Condition that holds when feature is enabled
func FeatureEnabled(feature string) Condition {
	return func(env *Environment) bool {
		return env.IsFeatureEnabled(feature)
	}
}

// OptionEquals is a Condition that holds when the option resolves to value
func OptionEquals(opt *option.Option, value string) Condition {
	return func(env *Environment) bool {
		return env.OptionValue(opt) == value
	}
}

// OptionSet is a Condition that holds when the option has a value
func OptionSet(opt *option.Option) Condition {
	return func(env *Environment) bool {
		return env.OptionValue(opt) != ""
	}
}

// OptionContains is a Condition that holds when the list option contains item
func OptionContains(opt *option.Option, item string) Condition {
	return func(env *Environment) bool {
		for _, v := range strings.Split(env.OptionValue(opt), ",") {
			if strings.TrimSpace(v) == item {
				return true
			}
		}
		return false
	}
}

func always(*Environment) bool { return true }

func never(*Environment) bool { return false }
