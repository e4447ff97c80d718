package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

func providerMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Provider).
			To("kc.spi-<spi>-provider").
			ParamLabel("provider").
			MustBuild(),
		FromOption(option.ProviderDefault).
			To("kc.spi-<spi>-provider-default").
			ParamLabel("default").
			MustBuild(),
		FromOption(option.ProviderEnabled).
			To("kc.spi-<spi and id>-enabled").
			MustBuild(),
	}
}
