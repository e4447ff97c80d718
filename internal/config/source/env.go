package source

import (
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

// EnvPrefix marks environment variables that carry Keycloak options
const EnvPrefix = "KC_"

// EnvNameMapper maps an environment variable name to the property it sets
type EnvNameMapper interface {
	MapEnvName(envName string) (string, bool)
}

// NewEnv builds the source of KC_ environment variables. environ has the
// form of os.Environ. Names the mapper does not know are converted
// generically, so KC_DB_URL becomes kc.db-url.
func NewEnv(environ []string, mapper EnvNameMapper) *config.MapSource {
	values := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || len(name) == len(EnvPrefix) {
			continue
		}
		values[envKey(name, mapper)] = value
	}
	return config.NewMapSource(config.EnvSourceName, EnvOrdinal, values)
}

// envKey returns the property set by the KC_ variable name
func envKey(name string, mapper EnvNameMapper) string {
	if mapper != nil {
		if key, ok := mapper.MapEnvName(name); ok && key != "" {
			return key
		}
	}
	return config.NSPrefix + strings.ToLower(strings.ReplaceAll(name[len(EnvPrefix):], "_", "-"))
}

// SystemEnv exposes every environment variable verbatim, so expressions
// such as ${DB_PASSWORD} resolve. Its names are not listed.
type SystemEnv struct {
	values map[string]string
}

func NewSystemEnv(environ []string) *SystemEnv {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		if name, value, ok := strings.Cut(kv, "="); ok {
			values[name] = value
		}
	}
	return &SystemEnv{values: values}
}

func (s *SystemEnv) Name() string {
	return "EnvConfigSource"
}

func (s *SystemEnv) Ordinal() int {
	return SystemEnvOrdinal
}

func (s *SystemEnv) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *SystemEnv) Names() []string {
	return nil
}
