// Package kube renders Keycloak options for a Kubernetes Deployment.
// Options are passed as KC_ environment variables; sensitive options are
// stored in a Secret and referenced from the variables.
package kube

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

type option struct {
	env    string
	value  string
	masked bool
}

// resolve maps the options, given as keys, kc. properties, command line
// flags or environment variables, to their environment variables
func resolve(reg *mapper.Registry, options map[string]string) ([]option, error) {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		out  []option
		errs []error
	)
	for _, name := range names {
		property := toProperty(reg, name)
		m := reg.Mapper(property)
		if m == nil {
			errs = append(errs, fmt.Errorf("unknown option %q", name))
			continue
		}
		env := m.EnvVarFormat()
		if m.HasWildcard() {
			key, ok := m.WildcardKey(property)
			if !ok {
				errs = append(errs, fmt.Errorf("option %q does not name a %s instance", name, m.CLIFormat()))
				continue
			}
			env = m.EnvVarFormatFor(key)
		}
		out = append(out, option{env: env, value: options[name], masked: m.IsMasked()})
	}
	return out, errors.Join(errs...)
}

func toProperty(reg *mapper.Registry, name string) string {
	switch {
	case strings.HasPrefix(name, mapper.ArgPrefix):
		return mapper.NSPrefix + strings.TrimPrefix(name, mapper.ArgPrefix)
	case strings.HasPrefix(name, mapper.EnvPrefix):
		if property, ok := reg.MapEnvName(name); ok {
			return property
		}
		return name
	case strings.HasPrefix(name, mapper.NSPrefix):
		return name
	default:
		return mapper.NSPrefix + name
	}
}

// EnvVars renders options as container environment variables. With a
// secretName, masked options reference the Secret built by SecretFor
// instead of carrying their value.
func EnvVars(reg *mapper.Registry, options map[string]string, secretName string) ([]corev1.EnvVar, error) {
	resolved, err := resolve(reg, options)
	if err != nil {
		return nil, err
	}

	vars := make([]corev1.EnvVar, 0, len(resolved))
	for _, o := range resolved {
		if o.masked && secretName != "" {
			vars = append(vars, corev1.EnvVar{
				Name: o.env,
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: secretName},
						Key:                  o.env,
					},
				},
			})
			continue
		}
		vars = append(vars, corev1.EnvVar{Name: o.env, Value: o.value})
	}
	return vars, nil
}

// SecretFor builds the Secret holding the masked options, keyed by their
// environment variable
func SecretFor(name, namespace string, reg *mapper.Registry, options map[string]string) (*corev1.Secret, error) {
	resolved, err := resolve(reg, options)
	if err != nil {
		return nil, err
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: make(map[string][]byte),
	}
	for _, o := range resolved {
		if o.masked {
			secret.Data[o.env] = []byte(o.value)
		}
	}
	return secret, nil
}

// ApplySecret creates the Secret or replaces the data of an existing one
func ApplySecret(ctx context.Context, c client.Client, secret *corev1.Secret, log logr.Logger) error {
	data := secret.Data
	existing := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      secret.Name,
			Namespace: secret.Namespace,
		},
	}

	result, err := controllerutil.CreateOrUpdate(ctx, c, existing, func() error {
		// Reset data to ensure only the rendered keys exist
		existing.Data = data
		existing.Type = corev1.SecretTypeOpaque
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply secret %s/%s: %w", secret.Namespace, secret.Name, err)
	}
	log.V(1).Info("applied secret", "secret", secret.Name, "namespace", secret.Namespace, "result", result)
	return nil
}
