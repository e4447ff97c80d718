package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

func featureMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Features).
			ParamLabel("feature").
			MustBuild(),
		FromOption(option.FeaturesDisabled).
			ParamLabel("feature").
			MustBuild(),
	}
}
