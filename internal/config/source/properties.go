package source

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/magiconair/properties"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

// LoadPropertiesFile reads a keycloak.conf file
func LoadPropertiesFile(path string) (*config.MapSource, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	name := fmt.Sprintf("%s[%s]", config.PropertiesSourceName, path)
	values, err := ParseProperties(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	metrics.ObserveSourceLoad("properties", time.Since(start).Seconds())
	return config.NewMapSource(name, PropertiesOrdinal, values), nil
}

// ParseProperties parses the keycloak.conf format, which is the Java
// properties format. Keys are moved into the kc. namespace, keeping a
// leading %profile. prefix in front. ${...} expressions are left as they
// are; they are expanded while values are resolved.
func ParseProperties(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, props.Len())
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		if key == "" {
			return nil, fmt.Errorf("missing key for value %q", value)
		}
		values[namespaced(key)] = value
	}
	return values, nil
}

// namespaced moves a keycloak.conf key into the kc. namespace
func namespaced(key string) string {
	if profile, rest, ok := config.SplitProfile(key); ok {
		return config.ProfilePrefix(profile) + namespaced(rest)
	}
	if strings.HasPrefix(key, config.NSPrefix) || strings.HasPrefix(key, "quarkus.") {
		return key
	}
	return config.NSPrefix + key
}
