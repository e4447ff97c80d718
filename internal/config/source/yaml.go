package source

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

// YAMLSourceName prefixes the name of YAML file sources
const YAMLSourceName = "KcYamlConfigSource"

// LoadYAMLFile reads options from a YAML file
func LoadYAMLFile(path string) (*config.MapSource, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	metrics.ObserveSourceLoad("yaml", time.Since(start).Seconds())
	return config.NewMapSource(fmt.Sprintf("%s[%s]", YAMLSourceName, path), PropertiesOrdinal, values), nil
}

// ParseYAML flattens a YAML document into options. Nested mappings join
// their keys with a dash, so http: {port: 8080} sets kc.http-port.
// Sequences become comma separated lists. Top-level keys starting with
// % select a profile.
//
//	db: postgres
//	http:
//	  port: 8443
//	features: [docker, token-exchange]
//	"%dev":
//	  db: dev-mem
func ParseYAML(data []byte) (map[string]string, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for key, v := range doc {
		if strings.HasPrefix(key, "%") && len(key) > 1 {
			nested, ok := v.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("profile %s must be a mapping", key)
			}
			if err := flatten(values, config.ProfilePrefix(key[1:])+config.NSPrefix, "", nested); err != nil {
				return nil, err
			}
			continue
		}
		if err := flattenValue(values, config.NSPrefix, key, v); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func flatten(values map[string]string, ns, prefix string, m map[string]interface{}) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}
		if err := flattenValue(values, ns, key, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func flattenValue(values map[string]string, ns, key string, v interface{}) error {
	switch val := v.(type) {
	case map[string]interface{}:
		return flatten(values, ns, key, val)
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, err := scalar(item)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			items = append(items, s)
		}
		values[ns+key] = strings.Join(items, ",")
	default:
		s, err := scalar(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		values[ns+key] = s
	}
	return nil
}

func scalar(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return fmt.Sprint(val), nil
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprint(int64(val)), nil
		}
		return fmt.Sprint(val), nil
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("nested value not allowed here")
	default:
		return fmt.Sprint(val), nil
	}
}
