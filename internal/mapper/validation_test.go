package mapper

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hostzero-GmbH/keycloak-config/internal/profile"
)

func validate(t *testing.T, command string, values map[string]string) error {
	t.Helper()
	reg := NewDefaultRegistry(logr.Discard())
	env := &Environment{Command: command, Features: profile.Static{}}
	cfg := newConfig(reg, env, values)
	require.NoError(t, reg.SanitizeDisabledMappers(env))
	return Validate(cfg, reg, env)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	err := validate(t, CommandStart, map[string]string{
		"kc.db":              "foo",
		"kc.nope":            "x",
		"kc.spi-foo-bar":     "y",
		"kc.tracing-enabled": "true",
	})
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 4)

	msg := err.Error()
	assert.Contains(t, msg, "Invalid value for option '--db': foo. Expected values are: ")
	assert.Contains(t, msg, "Missing option '--hostname'. Required when hostname-strict is set to true")
	assert.Contains(t, msg, "Disabled option: '--tracing-enabled'. Available only when feature 'opentelemetry' is enabled")
	assert.Contains(t, msg, "Unknown option: '--nope'")
	assert.NotContains(t, msg, "spi-foo-bar")
}

func TestValidate_Valid(t *testing.T) {
	err := validate(t, CommandStart, map[string]string{
		"kc.db":        "postgres",
		"kc.hostname":  "kc.example.com",
		"kc.log-level": "info,io.quarkus:debug",
	})
	assert.NoError(t, err)
}

func TestValidate_RequiredOnlyAtStart(t *testing.T) {
	assert.NoError(t, validate(t, CommandStartDev, nil))
	assert.ErrorContains(t, validate(t, CommandStart, map[string]string{"kc.hostname-strict": "true"}), "Missing option '--hostname'")
	assert.NoError(t, validate(t, CommandStart, map[string]string{"kc.hostname-strict": "false"}))
}

func TestValidate_WildcardInstances(t *testing.T) {
	err := validate(t, CommandStartDev, map[string]string{"kc.log-level-io.quarkus": "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid value for option '--log-level-io.quarkus': loud")
}

func TestValidate_DependentOption(t *testing.T) {
	err := validate(t, CommandStartDev, map[string]string{"kc.https-certificate-key-file": "/tls/key.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https-certificate-key-file available only when https-certificate-file is set")

	assert.NoError(t, validate(t, CommandStartDev, map[string]string{
		"kc.https-certificate-file":     "/tls/cert.pem",
		"kc.https-certificate-key-file": "/tls/key.pem",
	}))
}

func TestValidate_DisabledReportedOnce(t *testing.T) {
	err := validate(t, CommandStartDev, map[string]string{
		"kc.tracing-enabled":          "true",
		"quarkus.otel.traces.enabled": "true",
	})
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 1)
}
