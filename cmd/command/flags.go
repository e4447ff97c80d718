package command

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/Hostzero-GmbH/keycloak-config/internal/build"
	"github.com/Hostzero-GmbH/keycloak-config/internal/showconfig"
)

// Options holds the flags of a command. Keycloak options are not flags:
// they are split off the argument list and become the CLI config source.
type Options struct {
	// Configuration sources
	Profile      string
	ConfigSecret string
	Namespace    string
	RemoteURL    string
	RemoteToken  string
	BuildFile    string

	// Client credentials grant for --remote-config
	RemoteTokenURL     string
	RemoteClientID     string
	RemoteClientSecret string

	// MetricsFile receives the collected metrics after the command ran
	MetricsFile string

	// start / validate
	Optimized bool

	// Output options
	Output       string
	OutputFormat string

	// env
	SecretName  string
	ApplySecret bool

	// General options
	Verbose bool

	zapOpts zap.Options
}

// BindFlags binds the options of command to the given flag set
func (o *Options) BindFlags(fs *pflag.FlagSet, command string) {
	fs.StringVar(&o.Profile, "profile", "", "Configuration profile to activate, e.g. dev")
	fs.StringVar(&o.ConfigSecret, "config-secret", "", "Kubernetes Secret holding options, as name or namespace/name")
	fs.StringVar(&o.Namespace, "namespace", "", "Namespace of --config-secret and of the Secret written by env --apply")
	fs.StringVar(&o.RemoteURL, "remote-config", "", "URL of a keycloak.conf document to load options from")
	fs.StringVar(&o.RemoteToken, "remote-token", "", "Bearer token for --remote-config (or set KCCONFIG_REMOTE_TOKEN)")
	fs.StringVar(&o.RemoteTokenURL, "remote-token-url", "", "Token endpoint to obtain a --remote-config token with the client credentials grant")
	fs.StringVar(&o.RemoteClientID, "remote-client-id", "", "Client ID for --remote-token-url")
	fs.StringVar(&o.RemoteClientSecret, "remote-client-secret", "", "Client secret for --remote-token-url (or set KCCONFIG_REMOTE_CLIENT_SECRET)")
	fs.StringVar(&o.BuildFile, "build-file", build.DefaultPath, "File the build-time options are persisted to")
	fs.StringVar(&o.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the command finishes (textfile collector format)")
	fs.BoolVar(&o.Verbose, "verbose", false, "Enable verbose output")

	switch command {
	case cmdStart, cmdValidate:
		fs.BoolVar(&o.Optimized, "optimized", false, "Fail when build-time options differ from the persisted build")
	case cmdShowConfig:
		fs.StringVar(&o.Output, "output", "", "Output file path (default: stdout)")
		fs.StringVar(&o.OutputFormat, "output-format", showconfig.FormatText, "Output format: text, yaml or json")
	case cmdEnv:
		fs.StringVar(&o.Output, "output", "", "Output file path (default: stdout)")
		fs.StringVar(&o.SecretName, "secret-name", "", "Secret referenced by the variables of sensitive options")
		fs.BoolVar(&o.ApplySecret, "apply", false, "Create or update the Secret of sensitive options in the cluster")
	}

	gofs := flag.NewFlagSet(command, flag.ContinueOnError)
	o.zapOpts.BindFlags(gofs)
	fs.AddGoFlagSet(gofs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kcconfig %s [flags] [keycloak options]\n\nFlags:\n", command)
		fs.PrintDefaults()
	}
}

// Validate validates the options
func (o *Options) Validate(command string) error {
	if o.RemoteToken == "" {
		o.RemoteToken = os.Getenv("KCCONFIG_REMOTE_TOKEN")
	}
	if o.RemoteClientSecret == "" {
		o.RemoteClientSecret = os.Getenv("KCCONFIG_REMOTE_CLIENT_SECRET")
	}
	if o.RemoteToken != "" && o.RemoteURL == "" {
		return fmt.Errorf("--remote-token requires --remote-config")
	}
	if o.RemoteTokenURL != "" {
		if o.RemoteURL == "" {
			return fmt.Errorf("--remote-token-url requires --remote-config")
		}
		if o.RemoteToken != "" {
			return fmt.Errorf("--remote-token and --remote-token-url are mutually exclusive")
		}
		if o.RemoteClientID == "" {
			return fmt.Errorf("--remote-token-url requires --remote-client-id")
		}
	}

	if o.ConfigSecret != "" {
		if _, err := o.secretKey(); err != nil {
			return err
		}
	}

	switch o.OutputFormat {
	case "", showconfig.FormatText, showconfig.FormatYAML, showconfig.FormatJSON:
	default:
		return fmt.Errorf("unsupported --output-format %q", o.OutputFormat)
	}

	if command == cmdEnv && o.ApplySecret {
		if o.SecretName == "" {
			return fmt.Errorf("--apply requires --secret-name")
		}
		if o.Namespace == "" {
			return fmt.Errorf("--apply requires --namespace")
		}
	}
	return nil
}

func (o *Options) secretKey() (types.NamespacedName, error) {
	ns, name, ok := strings.Cut(o.ConfigSecret, "/")
	if !ok {
		ns, name = o.Namespace, o.ConfigSecret
	}
	if ns == "" || name == "" {
		return types.NamespacedName{}, fmt.Errorf("--config-secret needs a namespace, use namespace/name or --namespace")
	}
	return types.NamespacedName{Namespace: ns, Name: name}, nil
}

// splitArgs separates the flags known to fs from Keycloak options.
// Keycloak options start with -- as well, so unknown flags are handed on
// together with their value.
func splitArgs(fs *pflag.FlagSet, args []string) (own, keycloak []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") || arg == "--" {
			own = append(own, arg)
			continue
		}
		name, _, hasValue := strings.Cut(arg[2:], "=")
		f := fs.Lookup(name)
		if f == nil {
			keycloak = append(keycloak, arg)
			if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				i++
				keycloak = append(keycloak, args[i])
			}
			continue
		}
		own = append(own, arg)
		if !hasValue && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			own = append(own, args[i])
		}
	}
	return own, keycloak
}
