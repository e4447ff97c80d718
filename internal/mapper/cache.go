package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

func cacheMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Cache).
			ParamLabel("type").
			MustBuild(),
		FromOption(option.CacheConfigFile).
			To("kc.spi-connections-infinispan-quarkus-config-file").
			EnabledWhen(OptionEquals(option.Cache, "ispn"), "'cache' type is set to 'ispn'").
			ParamLabel("file").
			MustBuild(),
	}
}

func bootstrapAdminMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.BootstrapAdminUsername).
			ParamLabel("username").
			MustBuild(),
		FromOption(option.BootstrapAdminPassword).
			ParamLabel("password").
			Masked().
			MustBuild(),
	}
}
