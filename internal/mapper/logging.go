package mapper

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

const defaultLogLevel = "info"

func loggingMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Log).
			ParamLabel("<handler>").
			MustBuild(),
		FromOption(option.LogConsoleOutput).
			To("quarkus.log.console.json.enabled").
			EnabledWhen(OptionContains(option.Log, "console"), "log handler 'console' is activated").
			Transformer(jsonOutput).
			ParamLabel("output").
			MustBuild(),
		FromOption(option.LogLevel).
			To("quarkus.log.level").
			Transformer(rootLogLevel).
			Validator(validateLogLevel).
			ParamLabel("category:level").
			MustBuild(),
		FromOption(option.LogLevelCategory).
			To("quarkus.log.category.<category>.level").
			MapFrom(option.LogLevel, categoryLogLevel).
			WildcardKeysFromParent(logCategories).
			ParamLabel("level").
			MustBuild(),
	}
}

func jsonOutput(_, value string, _ config.Context) string {
	if value == "json" {
		return "true"
	}
	return "false"
}

// parseLogLevels splits a log-level value such as "info,io.quarkus:debug"
// into the root level and the levels per category
func parseLogLevels(value string) (root string, categories map[string]string) {
	categories = make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if category, level, ok := strings.Cut(part, ":"); ok {
			categories[category] = level
			continue
		}
		root = part
	}
	return root, categories
}

func rootLogLevel(_, value string, _ config.Context) string {
	root, _ := parseLogLevels(value)
	if root == "" {
		root = defaultLogLevel
	}
	return strings.ToUpper(root)
}

// categoryLogLevel extracts the level of one category from the log-level
// value. name is the category.
func categoryLogLevel(category, value string, _ config.Context) string {
	_, categories := parseLogLevels(value)
	return categories[category]
}

func logCategories(value string) []string {
	_, categories := parseLogLevels(value)
	keys := make([]string, 0, len(categories))
	for c := range categories {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	return keys
}

func validateLogLevel(value string) error {
	level := value
	if category, l, ok := strings.Cut(value, ":"); ok {
		if category == "" {
			return fmt.Errorf("Invalid log level: %s. Expected a category before ':'", value)
		}
		level = l
	}
	levels := option.LogLevelCategory.ExpectedValues()
	if !slices.ContainsFunc(levels, func(l string) bool { return strings.EqualFold(l, level) }) {
		return fmt.Errorf("Invalid log level: %s. Possible values are: %s", level, strings.Join(levels, ", "))
	}
	return nil
}
