// Package source provides the configuration sources the server reads from.
package source

import (
	"fmt"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
)

// Ordinals of the built-in sources. Higher ordinals win.
const (
	ArgsOrdinal       = 600
	EnvOrdinal        = 500
	SecretOrdinal     = 475
	PropertiesOrdinal = 450
	RemoteOrdinal     = 400
	SystemEnvOrdinal  = 300
	PersistedOrdinal  = 200
	DevOrdinal        = 100
)

// Args holds Keycloak options given on the command line
type Args struct {
	*config.MapSource
	args []string
}

// NewArgs parses --name=value and --name value arguments. Names are stored
// in the kc. namespace.
func NewArgs(args []string) (*Args, error) {
	values := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
			return nil, fmt.Errorf("unexpected argument %q", arg)
		}
		name, value, ok := strings.Cut(arg[2:], "=")
		if strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("Option: '%s' is not expected to contain whitespace, please remove any unnecessary quoting/escaping", arg)
		}
		if !ok {
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				return nil, fmt.Errorf("option '--%s' expects a value", name)
			}
			i++
			value = args[i]
		}
		values[config.NSPrefix+name] = value
	}
	return &Args{
		MapSource: config.NewMapSource(config.CLISourceName, ArgsOrdinal, values),
		args:      append([]string(nil), args...),
	}, nil
}

// Args returns the arguments the source was parsed from
func (a *Args) Args() []string {
	return append([]string(nil), a.args...)
}
