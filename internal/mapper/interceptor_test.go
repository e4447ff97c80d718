package mapper

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// newConfig builds a configuration resolved through reg. values are given
// on the command line.
func newConfig(reg *Registry, env *Environment, values map[string]string) *config.Config {
	cfg := config.New(config.Options{
		Sources: []config.Source{
			config.NewMapSource(config.CLISourceName, 600, values),
			config.NewMapSource("SysEnvConfigSource", 300, map[string]string{"DB_HOST": "db.internal"}),
		},
		Interceptors: []config.Interceptor{NewInterceptor(reg, env)},
	})
	if env != nil {
		env.Config = cfg
	}
	return cfg
}

func value(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	v, err := cfg.Value(name)
	require.NoError(t, err)
	return v.String()
}

func TestInterceptor_Resolve(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())

	tests := []struct {
		name   string
		values map[string]string
		lookup string
		want   string
	}{
		{name: "own value", values: map[string]string{"kc.db": "postgres"}, lookup: "kc.db", want: "postgres"},
		{name: "transformed", values: map[string]string{"kc.db": "postgres"}, lookup: "quarkus.datasource.db-kind", want: "postgresql"},
		{name: "trimmed", values: map[string]string{"kc.db": " mysql "}, lookup: "quarkus.datasource.db-kind", want: "mysql"},
		{name: "default transformed", lookup: "quarkus.datasource.db-kind", want: "h2"},
		{name: "default", lookup: "quarkus.http.port", want: "8080"},
		{name: "profile prefix", values: map[string]string{"kc.http-port": "9000"}, lookup: "%prod.quarkus.http.port", want: "9000"},
		{name: "from parent", values: map[string]string{"kc.db": "postgres"}, lookup: "quarkus.datasource.jdbc.url", want: "jdbc:postgresql://localhost:5432/keycloak"},
		{
			name:   "parent template with parts",
			values: map[string]string{"kc.db": "mysql", "kc.db-url-host": "mysql.example.com", "kc.db-url-port": "3307", "kc.db-url-database": "kc"},
			lookup: "quarkus.datasource.jdbc.url",
			want:   "jdbc:mysql://mysql.example.com:3307/kc",
		},
		{
			name:   "own value wins over parent",
			values: map[string]string{"kc.db": "postgres", "kc.db-url": "jdbc:postgresql://pg/kc"},
			lookup: "quarkus.datasource.jdbc.url",
			want:   "jdbc:postgresql://pg/kc",
		},
		{
			name:   "expression in own value",
			values: map[string]string{"kc.db": "postgres", "kc.db-url-host": "${DB_HOST}"},
			lookup: "quarkus.datasource.jdbc.url",
			want:   "jdbc:postgresql://db.internal:5432/keycloak",
		},
		{name: "dev database user", lookup: "quarkus.datasource.username", want: "sa"},
		{name: "no dev database user", values: map[string]string{"kc.db": "postgres"}, lookup: "quarkus.datasource.username", want: ""},
		{name: "fips disabled", lookup: "quarkus.security.security-providers", want: ""},
		{name: "fips feature", values: map[string]string{"kc.features": "fips"}, lookup: "quarkus.security.security-providers", want: "BCFIPS"},
		{name: "fips strict", values: map[string]string{"kc.fips-mode": "strict"}, lookup: "quarkus.security.security-providers", want: "BCFIPSJSSE"},
		{name: "root log level", values: map[string]string{"kc.log-level": "warn,io.quarkus:debug"}, lookup: "quarkus.log.level", want: "WARN"},
		{name: "category from parent", values: map[string]string{"kc.log-level": "warn,io.quarkus:debug"}, lookup: "quarkus.log.category.io.quarkus.level", want: "debug"},
		{
			name:   "category own value",
			values: map[string]string{"kc.log-level": "warn,io.quarkus:debug", "kc.log-level-io.quarkus": "trace"},
			lookup: "quarkus.log.category.io.quarkus.level",
			want:   "trace",
		},
		{name: "provider", values: map[string]string{"kc.provider-spi-storage": "jpa"}, lookup: "kc.spi-storage-provider", want: "jpa"},
		{name: "reload period disabled", values: map[string]string{"kc.https-certificates-reload-period": "-1"}, lookup: "quarkus.http.ssl.certificate.reload-period", want: ""},
		{name: "insecure requests", values: map[string]string{"kc.http-enabled": "true"}, lookup: "quarkus.http.insecure-requests", want: "enabled"},
		{name: "unmapped", values: map[string]string{"quarkus.http.limits.max-body-size": "10M"}, lookup: "quarkus.http.limits.max-body-size", want: "10M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(reg, nil, tt.values)
			assert.Equal(t, tt.want, value(t, cfg, tt.lookup))
		})
	}
}

func TestInterceptor_ResolvedValueMetadata(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	cfg := newConfig(reg, nil, map[string]string{"kc.db": "postgres"})

	own, err := cfg.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, config.CLISourceName, own.SourceName)
	assert.Equal(t, 600, own.SourceOrdinal)

	mapped, err := cfg.Value("quarkus.datasource.db-kind")
	require.NoError(t, err)
	assert.Equal(t, "postgresql", mapped.Value)
	assert.Equal(t, "postgres", mapped.RawValue)
	assert.Equal(t, config.CLISourceName, mapped.SourceName)
	assert.Zero(t, mapped.SourceOrdinal)

	def, err := cfg.Value("kc.http-port")
	require.NoError(t, err)
	assert.Empty(t, def.SourceName)
}

func TestInterceptor_Idempotent(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	cfg := newConfig(reg, nil, map[string]string{"kc.db": "postgres", "kc.log-level": "debug"})

	for _, name := range []string{"quarkus.datasource.jdbc.url", "quarkus.log.level", "kc.db"} {
		first, err := cfg.Value(name)
		require.NoError(t, err)
		second, err := cfg.Value(name)
		require.NoError(t, err)
		assert.Equal(t, first, second, name)
	}
}

func TestInterceptor_RecursiveTransformer(t *testing.T) {
	opt := option.New("recursive", option.TypeString).MustBuild()
	reg := NewRegistry(logr.Discard())
	reg.AddAll(FromOption(opt).
		To("quarkus.recursive").
		Transformer(func(_, value string, ctx config.Context) string {
			return value + "|" + ctx.Proceed("quarkus.recursive").String()
		}).
		MustBuild())

	cfg := newConfig(reg, nil, map[string]string{"kc.recursive": "x", "quarkus.recursive": "raw"})

	// the transformer's own lookup is mapped once more, then reaches the sources
	assert.Equal(t, "x|x|raw", value(t, cfg, "quarkus.recursive"))
}

func TestInterceptor_ExpressionCycle(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	cfg := newConfig(reg, nil, map[string]string{
		"kc.db-url-host":     "${kc.db-url-database}",
		"kc.db-url-database": "${kc.db-url-host}",
	})

	_, err := cfg.Value("kc.db-url-host")
	assert.ErrorIs(t, err, config.ErrExpansion)
	assert.ErrorContains(t, err, "circular reference")

	v, err := cfg.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, "dev-file", v.Value)
}

func TestInterceptor_MappingDisabled(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	cfg := newConfig(reg, nil, map[string]string{"kc.db": "postgres"})

	_, ok := cfg.RawValue("quarkus.datasource.db-kind")
	assert.False(t, ok)

	raw, ok := cfg.RawValue("kc.db")
	assert.True(t, ok)
	assert.Equal(t, "postgres", raw)
}

func TestInterceptor_Rebuild(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	env := &Environment{Command: CommandBuild, Rebuild: true}
	cfg := newConfig(reg, env, map[string]string{
		"kc.db":         "postgres",
		"kc.http-port":  "9090",
		"kc.custom":     "x",
		"quarkus.other": "y",
	})

	assert.Equal(t, "postgresql", value(t, cfg, "quarkus.datasource.db-kind"))
	assert.Equal(t, "", value(t, cfg, "quarkus.http.port"))
	assert.Equal(t, "", value(t, cfg, "kc.http-port"))
	assert.Equal(t, "", value(t, cfg, "kc.custom"))
	assert.Equal(t, "y", value(t, cfg, "quarkus.other"))

	names := cfg.Names()
	assert.Contains(t, names, "kc.db")
	assert.NotContains(t, names, "kc.http-port")
	assert.NotContains(t, names, "quarkus.http.port")
}

func TestInterceptor_IterateNames(t *testing.T) {
	reg := NewDefaultRegistry(logr.Discard())
	cfg := newConfig(reg, nil, map[string]string{
		"kc.db":                   "postgres",
		"kc.log-level":            "info,io.quarkus:debug",
		"kc.provider-spi-storage": "jpa",
		"other.property":          "x",
	})

	names := cfg.Names()
	for _, want := range []string{
		"kc.db",
		"quarkus.datasource.db-kind",
		"quarkus.log.level",
		"quarkus.log.category.io.quarkus.level",
		"kc.provider-spi-storage",
		"kc.spi-storage-provider",
		"other.property",
		"kc.http-port",
		"quarkus.http.port",
	} {
		assert.Contains(t, names, want)
	}

	// config options with defaults are not listed
	assert.NotContains(t, names, "smallrye.config.source.keystore.kc-default.type")
	// wildcard options have no instance without a value
	assert.NotContains(t, names, "kc.provider-default-spi-<spi>")
}
