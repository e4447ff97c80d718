package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upper is a test interceptor that upper-cases the value of one name
type upper struct {
	name     string
	priority int
	calls    int
}

func (u *upper) Priority() int { return u.priority }

func (u *upper) GetValue(ctx Context, name string) *Value {
	v := ctx.Proceed(name)
	if name != u.name || !v.Present() {
		return v
	}
	u.calls++
	return v.WithValue(v.Value + "!")
}

func (u *upper) IterateNames(ctx Context) []string {
	return append(ctx.IterateNames(), "derived."+u.name)
}

func TestConfig_SourceOrdinals(t *testing.T) {
	cfg := New(Options{Sources: []Source{
		NewMapSource("low", 100, map[string]string{"kc.db": "dev-file", "kc.only-low": "x"}),
		NewMapSource("high", 500, map[string]string{"kc.db": "postgres"}),
	}})

	v, err := cfg.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, "postgres", v.Value)
	assert.Equal(t, "high", v.SourceName)
	assert.Equal(t, 500, v.SourceOrdinal)

	v, err = cfg.KcValue("only-low")
	require.NoError(t, err)
	assert.Equal(t, "x", v.Value)

	v, err = cfg.Value("kc.missing")
	require.NoError(t, err)
	assert.False(t, v.Present())
}

func TestConfig_EmptyValueIsAbsent(t *testing.T) {
	cfg := New(Options{Sources: []Source{
		NewMapSource("high", 500, map[string]string{"kc.db": ""}),
		NewMapSource("low", 100, map[string]string{"kc.db": "mysql"}),
	}})

	v, err := cfg.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, "mysql", v.Value)
}

func TestConfig_Profile(t *testing.T) {
	sources := []Source{
		NewMapSource("file", 450, map[string]string{
			"kc.db":          "dev-file",
			"%dev.kc.db":     "dev-mem",
			"%prod.kc.db":    "postgres",
			"kc.http-port":   "8080",
			"%dev.kc.hidden": "yes",
		}),
		NewMapSource("env", 500, map[string]string{"kc.http-port": "9000"}),
	}

	dev := New(Options{Sources: sources, Profile: "dev"})
	v, err := dev.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, "dev-mem", v.Value)
	assert.Equal(t, "kc.db", v.Name)

	v, err = dev.Value("kc.http-port")
	require.NoError(t, err)
	assert.Equal(t, "9000", v.Value)

	names := dev.Names()
	assert.Contains(t, names, "kc.hidden")
	assert.NotContains(t, names, "%prod.kc.db")

	none := New(Options{Sources: sources})
	v, err = none.Value("kc.db")
	require.NoError(t, err)
	assert.Equal(t, "dev-file", v.Value)
	assert.Contains(t, none.PropertyNames(), "%prod.kc.db")
}

func TestConfig_InterceptorOrder(t *testing.T) {
	u := &upper{name: "kc.db", priority: 1000}
	cfg := New(Options{
		Sources:      []Source{NewMapSource("s", 100, map[string]string{"kc.db": "postgres"})},
		Interceptors: []Interceptor{u},
	})

	v, err := cfg.Value("kc.db")
	require.NoError(t, err)
	// the guard restarts the chain once, so the interceptor sees the name twice
	assert.Equal(t, "postgres!!", v.Value)
	assert.Equal(t, 2, u.calls)

	raw, ok := cfg.RawValue("kc.db")
	assert.True(t, ok)
	assert.Equal(t, "postgres!!", raw)
}

func TestConfig_Names(t *testing.T) {
	cfg := New(Options{
		Sources: []Source{
			NewMapSource("a", 100, map[string]string{"kc.a": "1", "kc.b": "2"}),
			NewMapSource("b", 200, map[string]string{"kc.b": "3"}),
		},
		Interceptors: []Interceptor{&upper{name: "kc.a", priority: 1000}},
	})

	assert.ElementsMatch(t, []string{"kc.a", "kc.b", "derived.kc.a"}, cfg.Names())
}

func TestConfig_Expressions(t *testing.T) {
	cfg := New(Options{Sources: []Source{NewMapSource("s", 100, map[string]string{
		"kc.db-url-host":  "db.example.com",
		"kc.db-url":       "jdbc:postgresql://${kc.db-url-host}:${kc.db-port:5432}/keycloak",
		"kc.escaped":      "$${kc.db-url-host}",
		"kc.password":     "pa$$word",
		"kc.broken":       "${kc.nothing}",
		"kc.cycle-a":      "${kc.cycle-b}",
		"kc.cycle-b":      "${kc.cycle-a}",
		"kc.nested":       "${kc.nothing:${kc.db-url-host}}",
		"kc.unterminated": "${kc.db-url-host",
	})}})

	v, err := cfg.Value("kc.db-url")
	require.NoError(t, err)
	assert.Equal(t, "jdbc:postgresql://db.example.com:5432/keycloak", v.Value)
	assert.Equal(t, "jdbc:postgresql://${kc.db-url-host}:${kc.db-port:5432}/keycloak", v.RawValue)

	v, err = cfg.Value("kc.escaped")
	require.NoError(t, err)
	assert.Equal(t, "${kc.db-url-host}", v.Value)

	v, err = cfg.Value("kc.password")
	require.NoError(t, err)
	assert.Equal(t, "pa$$word", v.Value)

	v, err = cfg.Value("kc.nested")
	require.NoError(t, err)
	assert.Equal(t, "db.example.com", v.Value)

	_, err = cfg.Value("kc.broken")
	assert.True(t, errors.Is(err, ErrExpansion))

	_, err = cfg.Value("kc.cycle-a")
	assert.ErrorIs(t, err, ErrExpansion)
	assert.ErrorContains(t, err, "circular reference to kc.cycle-a")

	_, err = cfg.Value("kc.unterminated")
	assert.True(t, errors.Is(err, ErrExpansion))
}

func TestExpand(t *testing.T) {
	lookup := func(name string) (string, bool) {
		values := map[string]string{"a": "1", "b": "2"}
		v, ok := values[name]
		return v, ok
	}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "plain", want: "plain"},
		{in: "${a}-${b}", want: "1-2"},
		{in: "${c:3}", want: "3"},
		{in: "${c:}", want: ""},
		{in: "${c:${a}}", want: "1"},
		{in: "cost $5", want: "cost $5"},
		{in: "$${a}", want: "${a}"},
		{in: "${c}", wantErr: true},
		{in: "${a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in, lookup)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScope(t *testing.T) {
	s := NewScope()

	release, ok := s.Acquire("kc.db")
	require.True(t, ok)
	assert.True(t, s.IsAtRoot())

	_, ok = s.Acquire("kc.db")
	assert.False(t, ok)

	release()
	assert.Equal(t, 0, s.InFlight())

	restore := s.DisableMapping()
	inner := s.DisableMapping()
	inner()
	assert.True(t, s.MappingDisabled())
	restore()
	assert.False(t, s.MappingDisabled())

	leave, ok := s.enterExpansion("kc.db-url", maxExpansionDepth)
	require.True(t, ok)
	assert.True(t, s.IsExpanding("kc.db-url"))
	leave()
	assert.False(t, s.IsExpanding("kc.db-url"))

	s.Fail(errors.New("first"))
	s.Fail(errors.New("second"))
	assert.EqualError(t, s.Err(), "first")
}

func TestExpandInScope(t *testing.T) {
	values := map[string]string{"a": "${b}", "b": "${c:x}"}
	s := NewScope()
	var lookup func(name string) (string, bool)
	lookup = func(name string) (string, bool) {
		v, ok := values[name]
		if !ok {
			return "", false
		}
		expanded, err := ExpandInScope(s, name, v, lookup)
		if err != nil {
			s.Fail(err)
			return "", false
		}
		return expanded, true
	}

	got, err := ExpandInScope(s, "a", values["a"], lookup)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	require.NoError(t, s.Err())

	// the failure of the nested reference is kept even though b has a default
	values["c"] = "${a}"
	_, _ = ExpandInScope(s, "a", values["a"], lookup)
	assert.ErrorIs(t, s.Err(), ErrExpansion)
	assert.ErrorContains(t, s.Err(), "circular reference to a")

	_, err = ExpandInScope(s, "self", "${self:fallback}", lookup)
	assert.ErrorIs(t, err, ErrExpansion)
	assert.False(t, s.IsExpanding("a"))
}

func TestSplitProfile(t *testing.T) {
	p, rest, ok := SplitProfile("%dev.kc.db")
	assert.True(t, ok)
	assert.Equal(t, "dev", p)
	assert.Equal(t, "kc.db", rest)

	_, rest, ok = SplitProfile("kc.db")
	assert.False(t, ok)
	assert.Equal(t, "kc.db", rest)

	_, _, ok = SplitProfile("%.kc.db")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "CLI", DisplayName(CLISourceName))
	assert.Equal(t, "ENV", DisplayName(EnvSourceName))
	assert.Equal(t, "KeyStore", DisplayName(KeystoreSourcePrefix+"[ns/secret]"))
	assert.Equal(t, "Default", DisplayName(""))
	assert.True(t, IsKeystoreSource(KeystoreSourcePrefix+"[ns/secret]"))
}
