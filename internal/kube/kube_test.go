package kube

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

func TestEnvVars(t *testing.T) {
	reg := mapper.NewDefaultRegistry(logr.Discard())
	options := map[string]string{
		"db":                   "postgres",
		"--db-password":        "secret",
		"kc.http-port":         "8443",
		"KC_LOG_LEVEL":         "info",
		"provider-spi-storage": "jpa",
	}

	vars, err := EnvVars(reg, options, "keycloak-config")
	require.NoError(t, err)

	byName := make(map[string]corev1.EnvVar, len(vars))
	for _, v := range vars {
		byName[v.Name] = v
	}
	assert.Len(t, byName, 5)
	assert.Equal(t, "postgres", byName["KC_DB"].Value)
	assert.Equal(t, "8443", byName["KC_HTTP_PORT"].Value)
	assert.Equal(t, "info", byName["KC_LOG_LEVEL"].Value)
	assert.Equal(t, "jpa", byName["KC_PROVIDER_SPI_STORAGE"].Value)

	password := byName["KC_DB_PASSWORD"]
	assert.Empty(t, password.Value)
	require.NotNil(t, password.ValueFrom)
	require.NotNil(t, password.ValueFrom.SecretKeyRef)
	assert.Equal(t, "keycloak-config", password.ValueFrom.SecretKeyRef.Name)
	assert.Equal(t, "KC_DB_PASSWORD", password.ValueFrom.SecretKeyRef.Key)
}

func TestEnvVars_InlineWithoutSecret(t *testing.T) {
	reg := mapper.NewDefaultRegistry(logr.Discard())

	vars, err := EnvVars(reg, map[string]string{"db-password": "secret"}, "")
	require.NoError(t, err)
	assert.Equal(t, []corev1.EnvVar{{Name: "KC_DB_PASSWORD", Value: "secret"}}, vars)
}

func TestEnvVars_UnknownOptions(t *testing.T) {
	reg := mapper.NewDefaultRegistry(logr.Discard())

	_, err := EnvVars(reg, map[string]string{"nope": "x", "KC_ALSO_NOPE": "y", "db": "postgres"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option "nope"`)
	assert.Contains(t, err.Error(), `unknown option "KC_ALSO_NOPE"`)
}

func TestSecretFor(t *testing.T) {
	reg := mapper.NewDefaultRegistry(logr.Discard())

	secret, err := SecretFor("keycloak-config", "iam", reg, map[string]string{
		"db":                       "postgres",
		"db-password":              "secret",
		"bootstrap-admin-password": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "keycloak-config", secret.Name)
	assert.Equal(t, "iam", secret.Namespace)
	assert.Equal(t, corev1.SecretTypeOpaque, secret.Type)
	assert.Equal(t, map[string][]byte{
		"KC_DB_PASSWORD":              []byte("secret"),
		"KC_BOOTSTRAP_ADMIN_PASSWORD": []byte("admin"),
	}, secret.Data)
}

func TestApplySecret(t *testing.T) {
	ctx := context.Background()
	stale := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "keycloak-config", Namespace: "iam"},
		Data:       map[string][]byte{"KC_OLD": []byte("x")},
	}
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).WithObjects(stale).Build()

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "keycloak-config", Namespace: "iam"},
		Data:       map[string][]byte{"KC_DB_PASSWORD": []byte("secret")},
	}
	require.NoError(t, ApplySecret(ctx, c, secret, logr.Discard()))

	got := &corev1.Secret{}
	require.NoError(t, c.Get(ctx, types.NamespacedName{Name: "keycloak-config", Namespace: "iam"}, got))
	assert.Equal(t, map[string][]byte{"KC_DB_PASSWORD": []byte("secret")}, got.Data)

	fresh := secret.DeepCopy()
	fresh.Name = "other"
	require.NoError(t, ApplySecret(ctx, c, fresh, logr.Discard()))
	require.NoError(t, c.Get(ctx, types.NamespacedName{Name: "other", Namespace: "iam"}, got))
	assert.Equal(t, corev1.SecretTypeOpaque, got.Type)
}
