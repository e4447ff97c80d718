package mapper

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// Validate checks a value set for the option. The error is a
// *PropertyError naming the option the way the user supplied it.
func (m *PropertyMapper) Validate(env *Environment, v *config.Value) error {
	if m.validator == nil || v == nil {
		return nil
	}
	return m.validator(m, v, env)
}

func defaultValidator(m *PropertyMapper, v *config.Value, _ *Environment) error {
	return m.validateValues(v, m.validateSingle)
}

// validateValues runs single on every element of a list value, or on the
// value itself. Element failures are reported together.
func (m *PropertyMapper) validateValues(v *config.Value, single func(v *config.Value, s string) error) error {
	values := []string{v.Value}
	if m.IsList() {
		values = strings.Split(v.Value, ",")
	}

	var messages []string
	for _, s := range values {
		if m.IsList() && strings.TrimSpace(s) != s {
			messages = append(messages, fmt.Sprintf(
				"Invalid value for multivalued option %s: list value '%s' should not have leading nor trailing whitespace",
				m.optionAndSourceMessage(v), s))
			continue
		}
		if err := single(v, s); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) > 0 {
		return newPropertyError(m.opt.Key(), messages...)
	}
	return nil
}

func (m *PropertyMapper) validateSingle(v *config.Value, s string) error {
	if m.opt.Type() == option.TypeInt {
		if _, err := strconv.Atoi(s); err != nil {
			return newPropertyError(m.opt.Key(), fmt.Sprintf(
				"Invalid value for option %s: %s. Expected an integer value", m.optionAndSourceMessage(v), s))
		}
	}
	return m.validateExpectedValues(v, s)
}

func (m *PropertyMapper) validateExpectedValues(v *config.Value, s string) error {
	expected := m.opt.ExpectedValues()
	if len(expected) == 0 || !m.opt.IsStrictExpectedValues() || slices.Contains(expected, s) {
		return nil
	}
	if m.opt.IsCaseInsensitiveExpectedValues() && slices.ContainsFunc(expected, func(e string) bool {
		return strings.EqualFold(e, s)
	}) {
		return nil
	}
	return newPropertyError(m.opt.Key(), fmt.Sprintf("Invalid value for option %s: %s.%s",
		m.optionAndSourceMessage(v), s, expectedValuesMessage(expected, m.opt.IsCaseInsensitiveExpectedValues())))
}

func expectedValuesMessage(expected []string, caseInsensitive bool) string {
	if caseInsensitive {
		return " Expected values are (case insensitive): " + strings.Join(expected, ", ")
	}
	return " Expected values are: " + strings.Join(expected, ", ")
}

// optionAndSourceMessage names the option in the form it was given in:
// the flag for the command line, the variable for the environment and the
// property plus its source otherwise
func (m *PropertyMapper) optionAndSourceMessage(v *config.Value) string {
	key, _ := m.WildcardKey(v.Name)
	switch {
	case config.IsCLISource(v.SourceName):
		return fmt.Sprintf("'%s'", m.CLIFormatFor(key))
	case config.IsEnvSource(v.SourceName):
		return fmt.Sprintf("'%s'", m.EnvVarFormatFor(key))
	default:
		return fmt.Sprintf("'%s' in %s", m.FromFor(key), config.DisplayName(v.SourceName))
	}
}
