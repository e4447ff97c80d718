package option

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	opt, err := New("http-port", TypeInt).Build()
	require.NoError(t, err)

	assert.Equal(t, "http-port", opt.Key())
	assert.Equal(t, CategoryGeneral, opt.Category())
	assert.True(t, opt.IsStrictExpectedValues())
	assert.True(t, opt.IsRunTime())
	assert.False(t, opt.IsBuildTime())
	_, hasDefault := opt.DefaultValue()
	assert.False(t, hasDefault)
}

func TestBuild_BooleanExpectedValues(t *testing.T) {
	opt := New("http-enabled", TypeBool).MustBuild()
	assert.Equal(t, []string{"true", "false"}, opt.ExpectedValues())
}

func TestBuild_RunTimeIsNotBuildTime(t *testing.T) {
	for _, buildTime := range []bool{true, false} {
		opt := New("db", TypeString).BuildTime(buildTime).MustBuild()
		assert.Equal(t, !opt.IsBuildTime(), opt.IsRunTime())
	}
}

func TestBuild_Wildcards(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "no placeholder", key: "db-url"},
		{name: "single placeholder", key: "provider-spi-<spi>"},
		{name: "placeholder with spaces", key: "provider-enabled-<spi and id>"},
		{name: "two placeholders", key: "spi-<spi>-<provider>", wantErr: ErrMultipleWildcards},
		{name: "empty key", key: " ", wantErr: ErrEmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.key, TypeString).Build()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMustBuild_PanicsOnInvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		New("a-<b>-<c>", TypeString).MustBuild()
	})
}

func TestSplitWildcard(t *testing.T) {
	prefix, suffix, ok := SplitWildcard("kc.spi-<spi>-provider")
	require.True(t, ok)
	assert.Equal(t, "kc.spi-", prefix)
	assert.Equal(t, "-provider", suffix)

	_, _, ok = SplitWildcard("kc.db")
	assert.False(t, ok)

	assert.Equal(t, "kc.spi-storage-provider", ReplaceWildcard("kc.spi-<spi>-provider", "storage"))
	assert.Equal(t, "kc.db", ReplaceWildcard("kc.db", "storage"))
}

func TestExpectedValuesAreCopied(t *testing.T) {
	values := []string{"a", "b"}
	opt := New("x", TypeEnum).ExpectedValues(values...).MustBuild()
	values[0] = "changed"

	got := opt.ExpectedValues()
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, opt.ExpectedValues())
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "Database", CategoryDatabase.Heading())
	assert.True(t, CategoryDatabase.IsSupported())
	assert.False(t, CategoryTracing.IsSupported())
	assert.Equal(t, SupportLevelPreview, CategoryTracing.SupportLevel())
	assert.Len(t, Categories(), len(categoryInfo))
}
