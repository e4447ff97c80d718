package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

// LoadSecret reads options from a Kubernetes Secret. Each data key is an
// option key (db-password), a property name (kc.db-password) or an
// environment variable name (KC_DB_PASSWORD), mapped with mapper like the
// env source does. The source is keystore backed, so its values are always
// masked when shown.
func LoadSecret(ctx context.Context, c client.Client, key types.NamespacedName, mapper EnvNameMapper) (*config.MapSource, error) {
	start := time.Now()
	secret := &corev1.Secret{}
	if err := c.Get(ctx, key, secret); err != nil {
		return nil, fmt.Errorf("failed to get config secret %s: %w", key, err)
	}

	values := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		values[secretKey(k, mapper)] = string(v)
	}
	for k, v := range secret.StringData {
		values[secretKey(k, mapper)] = v
	}

	metrics.ObserveSourceLoad("secret", time.Since(start).Seconds())
	name := fmt.Sprintf("%s[%s]", config.KeystoreSourcePrefix, key)
	return config.NewMapSource(name, SecretOrdinal, values), nil
}

func secretKey(k string, mapper EnvNameMapper) string {
	switch {
	case strings.HasPrefix(k, config.NSPrefix):
		return k
	case strings.HasPrefix(k, EnvPrefix) && len(k) > len(EnvPrefix):
		return envKey(k, mapper)
	default:
		return config.NSPrefix + k
	}
}
