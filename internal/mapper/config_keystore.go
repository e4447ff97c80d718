package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

const keystoreSourcePrefix = "smallrye.config.source.keystore.kc-default."

func configKeystoreMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.ConfigFile).
			ParamLabel("file").
			MustBuild(),
		FromOption(option.ConfigKeystore).
			To(keystoreSourcePrefix + "path").
			ParamLabel("config-keystore").
			MustBuild(),
		FromOption(option.ConfigKeystorePassword).
			To(keystoreSourcePrefix + "password").
			ParamLabel("config-keystore-password").
			RequiredWhen(OptionSet(option.ConfigKeystore), "config-keystore is set").
			Masked().
			MustBuild(),
		FromOption(option.ConfigKeystoreType).
			To(keystoreSourcePrefix + "type").
			ParamLabel("config-keystore-type").
			MustBuild(),
	}
}
