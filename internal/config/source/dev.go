package source

import (
	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

const (
	// DevProfile is the profile of a development mode start
	DevProfile = "dev"

	// DevSourceName names the defaults of the dev profile
	DevSourceName = "DevProfileDefaults"
)

// NewDevDefaults returns the option defaults of the dev profile. They only
// apply while the dev profile is active.
func NewDevDefaults() *config.MapSource {
	dev := config.ProfilePrefix(DevProfile)
	return config.NewMapSource(DevSourceName, DevOrdinal, map[string]string{
		dev + "kc.http-enabled":    "true",
		dev + "kc.hostname-strict": "false",
		dev + "kc.cache":           "local",
	})
}
