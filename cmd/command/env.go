package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/Hostzero-GmbH/keycloak-config/internal/kube"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

// runEnv renders the Keycloak options of the command line as container
// environment variables. With --secret-name the sensitive options go to a
// Secret, printed after the variables or applied with --apply.
func runEnv(ctx context.Context, c *invocation) error {
	e, err := newEngine(ctx, c.opts, engineOptions{command: mapper.CommandStart, environ: c.environ}, c.kcArgs, c.log)
	if err != nil {
		return err
	}
	values := e.kcValues()

	vars, err := kube.EnvVars(e.reg, values, c.opts.SecretName)
	if err != nil {
		return err
	}
	docs := []interface{}{vars}

	if c.opts.SecretName != "" {
		secret, err := kube.SecretFor(c.opts.SecretName, c.opts.Namespace, e.reg, values)
		if err != nil {
			return err
		}
		if c.opts.ApplySecret {
			k8sClient, err := newClient()
			if err != nil {
				return err
			}
			if err := kube.ApplySecret(ctx, k8sClient, secret, c.log); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Applied secret %s/%s\n", secret.Namespace, secret.Name)
		} else if len(secret.Data) > 0 {
			secret.APIVersion = "v1"
			secret.Kind = "Secret"
			docs = append(docs, secret)
		}
	}

	out := c.out
	if c.opts.Output != "" {
		f, err := os.Create(c.opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeDocuments(out, docs)
}

func writeDocuments(out io.Writer, docs []interface{}) error {
	for i, doc := range docs {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}

		// Write document separator before each document (except first)
		if i > 0 {
			if _, err := io.WriteString(out, "---\n"); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}
