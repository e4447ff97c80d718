package config

import (
	"sort"
	"strings"
)

// Names of the built-in configuration sources
const (
	CLISourceName        = "CliConfigSource"
	EnvSourceName        = "KcEnvVarConfigSource"
	KeystoreSourcePrefix = "KeyStoreConfigSource"
	PropertiesSourceName = "KcPropertiesConfigSource"
	PersistedSourceName  = "PersistedConfigSource"
	RemoteSourceName     = "RemoteConfigSource"
)

// Source is an ordered store of raw properties
type Source interface {
	Name() string
	Ordinal() int
	Get(name string) (string, bool)
	Names() []string
}

// NameLister lists raw property names without running any interceptor
type NameLister interface {
	PropertyNames() []string
}

func IsCLISource(name string) bool {
	return name == CLISourceName
}

func IsEnvSource(name string) bool {
	return name == EnvSourceName
}

// IsKeystoreSource reports whether the source holds secrets whose values
// must never be shown
func IsKeystoreSource(name string) bool {
	return strings.HasPrefix(name, KeystoreSourcePrefix)
}

// DisplayName is the short source label used when printing configuration
func DisplayName(sourceName string) string {
	switch {
	case sourceName == "":
		return "Default"
	case IsCLISource(sourceName):
		return "CLI"
	case IsEnvSource(sourceName):
		return "ENV"
	case IsKeystoreSource(sourceName):
		return "KeyStore"
	case strings.HasPrefix(sourceName, PropertiesSourceName):
		return "conf file"
	case strings.HasPrefix(sourceName, PersistedSourceName):
		return "Persisted"
	case strings.HasPrefix(sourceName, RemoteSourceName):
		return "Remote"
	default:
		return sourceName
	}
}

// MapSource is a Source backed by a map
type MapSource struct {
	name    string
	ordinal int
	values  map[string]string
}

// NewMapSource copies values into a new source
func NewMapSource(name string, ordinal int, values map[string]string) *MapSource {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = v
	}
	return &MapSource{name: name, ordinal: ordinal, values: m}
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Ordinal() int {
	return s.ordinal
}

func (s *MapSource) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the property names in sorted order
func (s *MapSource) Names() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
