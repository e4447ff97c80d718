package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

func hostnameMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Hostname).
			To("kc.spi-hostname-v2-hostname").
			ParamLabel("hostname|url").
			RequiredWhen(strictHostnameAtStart, "hostname-strict is set to true").
			MustBuild(),
		FromOption(option.HostnameAdmin).
			To("kc.spi-hostname-v2-hostname-admin").
			ParamLabel("url").
			AddValidateEnabled(OptionSet(option.Hostname), "hostname is set").
			MustBuild(),
		FromOption(option.HostnameStrict).
			To("kc.spi-hostname-v2-hostname-strict").
			MustBuild(),
	}
}

func strictHostnameAtStart(env *Environment) bool {
	return env != nil && env.Command == CommandStart && env.OptionValue(option.HostnameStrict) == "true"
}
