package source

import (
	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

// NewPersisted wraps the build-time values recorded by a build
func NewPersisted(values map[string]string) *config.MapSource {
	return config.NewMapSource(config.PersistedSourceName, PersistedOrdinal, values)
}
