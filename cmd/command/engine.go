package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	clientconfig "sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/config/source"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
	"github.com/Hostzero-GmbH/keycloak-config/internal/profile"
)

// DefaultConfigFile is read when --config-file is not given and the file exists
const DefaultConfigFile = "conf/keycloak.conf"

// engine is the resolved configuration of one command run
type engine struct {
	reg  *mapper.Registry
	env  *mapper.Environment
	cfg  *config.Config
	args *source.Args
}

type engineOptions struct {
	command string
	rebuild bool
	environ []string
	// persisted is added as the lowest ordinal source when set
	persisted config.Source
	// client reads --config-secret; built from the kubeconfig when nil
	client client.Client
	// devMode activates the dev profile and its defaults
	devMode bool
}

func newEngine(ctx context.Context, opts *Options, eo engineOptions, kcArgs []string, log logr.Logger) (*engine, error) {
	reg := mapper.NewDefaultRegistry(log)

	args, err := source.NewArgs(kcArgs)
	if err != nil {
		return nil, err
	}
	sources := []config.Source{
		args,
		source.NewEnv(eo.environ, reg),
		source.NewSystemEnv(eo.environ),
	}

	file, err := loadConfigFile(sources, reg)
	if err != nil {
		return nil, err
	}
	if file != nil {
		sources = append(sources, file)
	}

	if opts.ConfigSecret != "" {
		secret, err := loadSecret(ctx, opts, eo.client, reg)
		if err != nil {
			return nil, err
		}
		sources = append(sources, secret)
	}

	if opts.RemoteURL != "" {
		remote, err := source.NewRemote(source.RemoteConfig{
			URL:          opts.RemoteURL,
			Token:        opts.RemoteToken,
			TokenURL:     opts.RemoteTokenURL,
			ClientID:     opts.RemoteClientID,
			ClientSecret: opts.RemoteClientSecret,
		}, log).Load(ctx)
		if err != nil {
			return nil, err
		}
		sources = append(sources, remote)
	}

	if eo.persisted != nil {
		sources = append(sources, eo.persisted)
	}

	profileName := opts.Profile
	if eo.devMode {
		profileName = source.DevProfile
		sources = append(sources, source.NewDevDefaults())
	}

	env := &mapper.Environment{Command: eo.command, Rebuild: eo.rebuild}
	cfg := config.New(config.Options{
		Sources:      sources,
		Interceptors: []config.Interceptor{mapper.NewInterceptor(reg, env)},
		Profile:      profileName,
		Log:          log,
	})
	env.Config = cfg

	features, err := profile.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	env.Features = features

	if err := reg.SanitizeDisabledMappers(env); err != nil {
		return nil, err
	}
	log.V(1).Info("configuration resolved", "command", eo.command, "profile", profileName, "sources", len(sources), "features", features.EnabledFeatures())

	return &engine{reg: reg, env: env, cfg: cfg, args: args}, nil
}

// loadConfigFile reads the file named by the config-file option of the
// command line and environment sources. The default file is optional.
func loadConfigFile(sources []config.Source, reg *mapper.Registry) (config.Source, error) {
	bootstrap := config.New(config.Options{
		Sources:      sources,
		Interceptors: []config.Interceptor{mapper.NewInterceptor(reg, nil)},
	})
	v, err := bootstrap.KcValue(option.ConfigFile.Key())
	if err != nil {
		return nil, err
	}

	path := v.String()
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return nil, nil
		}
		path = DefaultConfigFile
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return source.LoadYAMLFile(path)
	default:
		return source.LoadPropertiesFile(path)
	}
}

func loadSecret(ctx context.Context, opts *Options, c client.Client, reg *mapper.Registry) (config.Source, error) {
	key, err := opts.secretKey()
	if err != nil {
		return nil, err
	}
	if c == nil {
		if c, err = newClient(); err != nil {
			return nil, err
		}
	}
	return source.LoadSecret(ctx, c, key, reg)
}

func newClient() (client.Client, error) {
	cfg, err := clientconfig.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubeconfig: %w (ensure KUBECONFIG is set or ~/.kube/config exists)", err)
	}
	c, err := client.New(cfg, client.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return c, nil
}

// kcValues returns the Keycloak options given on the command line
func (e *engine) kcValues() map[string]string {
	values := make(map[string]string)
	for _, name := range e.args.Names() {
		if v, ok := e.args.Get(name); ok {
			values[name] = v
		}
	}
	return values
}

// validate runs the validation pass and reports all failures at once
func (e *engine) validate() error {
	if err := mapper.Validate(e.cfg, e.reg, e.env); err != nil {
		var lines []string
		for _, line := range strings.Split(err.Error(), "\n") {
			lines = append(lines, "- "+line)
		}
		return errors.New("invalid configuration:\n" + strings.Join(lines, "\n"))
	}
	return nil
}
