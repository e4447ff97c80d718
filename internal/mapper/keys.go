package mapper

import (
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

const (
	// ArgPrefix prefixes options given on the command line
	ArgPrefix = "--"
	// NSPrefix is the namespace of Keycloak properties
	NSPrefix = config.NSPrefix
	// EnvPrefix prefixes Keycloak environment variables
	EnvPrefix = "KC_"
	// SPIPrefix prefixes SPI properties
	SPIPrefix = "kc.spi"
	// ValueMask replaces sensitive values when configuration is shown
	ValueMask = "*******"
)

// ToCLIFormat derives the command line form of a key: kc.db-url becomes --db-url
func ToCLIFormat(key string) string {
	return ArgPrefix + strings.TrimPrefix(key, NSPrefix)
}

// ToEnvVarFormat derives the environment variable form of a property name:
// kc.db-url becomes KC_DB_URL. Every character that is not a letter or a
// digit turns into an underscore.
func ToEnvVarFormat(name string) string {
	b := []byte(name)
	for i, c := range b {
		if !isAlphanumeric(c) {
			b[i] = '_'
		}
	}
	return strings.ToUpper(string(b))
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// IsSpiBuildTimeProperty reports whether name selects or enables an SPI
// provider, which is fixed at build time
func IsSpiBuildTimeProperty(name string) bool {
	return strings.HasPrefix(name, SPIPrefix) &&
		(strings.HasSuffix(name, "-provider") || strings.HasSuffix(name, "-enabled") || strings.HasSuffix(name, "-provider-default"))
}

// stripProfile removes a leading %profile. prefix
func stripProfile(name string) string {
	_, rest, _ := config.SplitProfile(name)
	return rest
}
