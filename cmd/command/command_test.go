package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hostzero-GmbH/keycloak-config/internal/showconfig"
)

func run(t *testing.T, name string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(name, args, &out, []string{"DB_HOST=db.internal"})
	return out.String(), err
}

func TestSplitArgs(t *testing.T) {
	fs := pflag.NewFlagSet("show-config", pflag.ContinueOnError)
	opts := &Options{}
	opts.BindFlags(fs, cmdShowConfig)

	own, kc := splitArgs(fs, []string{
		"--verbose", "--db", "postgres", "--output-format=yaml", "all",
		"--http-port=8080", "--profile", "dev", "--zap-devel",
	})
	assert.Equal(t, []string{"--verbose", "--output-format=yaml", "all", "--profile", "dev", "--zap-devel"}, own)
	assert.Equal(t, []string{"--db", "postgres", "--http-port=8080"}, kc)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		command string
		opts    Options
		wantErr string
	}{
		{name: "defaults", command: cmdStart},
		{name: "token without url", command: cmdStart, opts: Options{RemoteToken: "t"}, wantErr: "--remote-token requires --remote-config"},
		{name: "secret without namespace", command: cmdStart, opts: Options{ConfigSecret: "kc"}, wantErr: "--config-secret needs a namespace"},
		{name: "secret with namespace", command: cmdStart, opts: Options{ConfigSecret: "iam/kc"}},
		{name: "secret with namespace flag", command: cmdStart, opts: Options{ConfigSecret: "kc", Namespace: "iam"}},
		{name: "token url without url", command: cmdStart, opts: Options{RemoteTokenURL: "https://idp/token"}, wantErr: "--remote-token-url requires --remote-config"},
		{name: "token url without client", command: cmdStart, opts: Options{RemoteURL: "https://conf", RemoteTokenURL: "https://idp/token"}, wantErr: "--remote-token-url requires --remote-client-id"},
		{name: "token and token url", command: cmdStart, opts: Options{RemoteURL: "https://conf", RemoteToken: "t", RemoteTokenURL: "https://idp/token", RemoteClientID: "c"}, wantErr: "mutually exclusive"},
		{name: "client credentials", command: cmdStart, opts: Options{RemoteURL: "https://conf", RemoteTokenURL: "https://idp/token", RemoteClientID: "c"}},
		{name: "bad format", command: cmdShowConfig, opts: Options{OutputFormat: "xml"}, wantErr: "unsupported --output-format"},
		{name: "apply without secret", command: cmdEnv, opts: Options{ApplySecret: true}, wantErr: "--apply requires --secret-name"},
		{name: "apply without namespace", command: cmdEnv, opts: Options{ApplySecret: true, SecretName: "kc"}, wantErr: "--apply requires --namespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KCCONFIG_REMOTE_TOKEN", "")
			t.Setenv("KCCONFIG_REMOTE_CLIENT_SECRET", "")
			err := tt.opts.Validate(tt.command)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, err := run(t, "deploy")
	var usage usageError
	assert.ErrorAs(t, err, &usage)
}

func TestExecute_BuildAndOptimizedStart(t *testing.T) {
	buildFile := filepath.Join(t.TempDir(), "build", "persisted.yaml")

	out, err := run(t, cmdBuild, "--build-file", buildFile, "--db=postgres", "--http-port=9090")
	require.NoError(t, err)
	assert.Contains(t, out, "The following run time options were found, but will be ignored during build time: kc.http-port")
	assert.Contains(t, out, "Build configuration persisted to "+buildFile)

	_, err = run(t, cmdStart, "--optimized", "--build-file", buildFile, "--db=mysql", "--hostname-strict=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The following build time options have values that differ from what is persisted")
	assert.Contains(t, err.Error(), "kc.db")

	out, err = run(t, cmdStart, "--optimized", "--build-file", buildFile, "--hostname-strict=false", "--db-url-host=${DB_HOST}")
	require.NoError(t, err)
	assert.Contains(t, out, "quarkus.datasource.db-kind=postgresql\n")
	assert.Contains(t, out, "quarkus.datasource.jdbc.url=jdbc:postgresql://db.internal:5432/keycloak\n")
	assert.Contains(t, out, "quarkus.http.port=8080\n")
	assert.NotContains(t, out, "kc.db=")
}

func TestExecute_OptimizedWithoutBuild(t *testing.T) {
	_, err := run(t, cmdStart, "--optimized", "--build-file", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "the '--optimized' flag was used for first ever server start")
}

func TestExecute_StartWithDevProfile(t *testing.T) {
	_, err := run(t, cmdStart, "--profile=dev", "--hostname-strict=false")
	assert.ErrorContains(t, err, "You can not 'start' the server in development mode")

	_, err = run(t, cmdStart, "--profile=dev", "--optimized")
	assert.ErrorContains(t, err, "You can not 'start' the server in development mode")
}

func TestExecute_StartDev(t *testing.T) {
	out, err := run(t, cmdStartDev)
	require.NoError(t, err)
	assert.Contains(t, out, "kc.cache=local\n")
	assert.Contains(t, out, "quarkus.http.insecure-requests=enabled\n")
	assert.Contains(t, out, "quarkus.datasource.db-kind=h2\n")

	out, err = run(t, cmdStartDev, "--db=postgres", "--cache=ispn")
	require.NoError(t, err)
	assert.Contains(t, out, "quarkus.datasource.db-kind=postgresql\n")
	assert.Contains(t, out, "kc.cache=ispn\n")
}

func TestExecute_ArgumentWithWhitespace(t *testing.T) {
	_, err := run(t, cmdStart, "--db postgres")
	assert.ErrorContains(t, err, "Option: '--db postgres' is not expected to contain whitespace, please remove any unnecessary quoting/escaping")
}

func TestExecute_Validate(t *testing.T) {
	out, err := run(t, cmdValidate, "--db=postgres", "--hostname=kc.example.com")
	require.NoError(t, err)
	assert.Equal(t, "Configuration is valid\n", out)

	_, err = run(t, cmdValidate, "--db=foo", "--nope=x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "- Invalid value for option '--db': foo")
	assert.Contains(t, err.Error(), "- Missing option '--hostname'")
	assert.Contains(t, err.Error(), "- Unknown option: '--nope'")

	_, err = run(t, cmdValidate, "--db")
	assert.ErrorContains(t, err, "option '--db' expects a value")
}

func TestExecute_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kcconfig.prom")

	_, err := run(t, cmdValidate, "--metrics-file", path, "--db=foo")
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `keycloak_config_resolutions_total{result="mapped"}`)
	assert.Contains(t, string(data), `keycloak_config_validation_errors_total{option="db"}`)
	assert.Contains(t, string(data), "keycloak_config_disabled_mappers")
}

func TestExecute_ShowConfig(t *testing.T) {
	out, err := run(t, cmdShowConfig, "--build-file", filepath.Join(t.TempDir(), "none.yaml"),
		"--output-format", "json", "--db=postgres", "--db-password=secret")
	require.NoError(t, err)

	var entries []showconfig.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	byName := make(map[string]showconfig.Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Equal(t, "postgres", byName["kc.db"].Value)
	assert.Equal(t, "CLI", byName["kc.db"].Source)
	assert.Equal(t, "*******", byName["kc.db-password"].Value)

	_, err = run(t, cmdShowConfig, "all", "dev")
	assert.Error(t, err)
}

func TestExecute_ShowConfigRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "kcconfig", r.PostForm.Get("client_id"))
			assert.Equal(t, "s3cret", r.PostForm.Get("client_secret"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"granted","token_type":"Bearer"}`))
		case "/keycloak.conf":
			if r.Header.Get("Authorization") != "Bearer granted" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("db=mariadb\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	out, err := run(t, cmdShowConfig, "--build-file", filepath.Join(t.TempDir(), "none.yaml"), "--output-format", "json",
		"--remote-config", server.URL+"/keycloak.conf", "--remote-token-url", server.URL+"/token",
		"--remote-client-id", "kcconfig", "--remote-client-secret", "s3cret")
	require.NoError(t, err)

	var entries []showconfig.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	var db *showconfig.Entry
	for i := range entries {
		if entries[i].Name == "kc.db" {
			db = &entries[i]
		}
	}
	require.NotNil(t, db)
	assert.Equal(t, "mariadb", db.Value)
	assert.Equal(t, "Remote", db.Source)
}

func TestExecute_Env(t *testing.T) {
	out, err := run(t, cmdEnv, "--secret-name", "keycloak-config", "--namespace", "iam",
		"--db=postgres", "--db-password=secret")
	require.NoError(t, err)

	assert.Contains(t, out, "- name: KC_DB\n  value: postgres\n")
	assert.Contains(t, out, "secretKeyRef:")
	assert.Contains(t, out, "---\n")
	assert.Contains(t, out, "kind: Secret")
	assert.Contains(t, out, "KC_DB_PASSWORD: c2VjcmV0")

	_, err = run(t, cmdEnv, "--nope=x")
	assert.ErrorContains(t, err, `unknown option "kc.nope"`)
}

func TestExecute_Options(t *testing.T) {
	out, err := run(t, cmdOptions)
	require.NoError(t, err)
	assert.Contains(t, out, "Build time options - Database:\n")
	assert.Contains(t, out, "Run time options - HTTP(S):\n")
	assert.Contains(t, out, "  --db <")
	assert.Contains(t, out, "Env: KC_DB_PASSWORD. Sensitive.")
}
