package mapper

import (
	"slices"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// Security providers installed for each FIPS mode
const (
	fipsProvider       = "BCFIPS"
	fipsStrictProvider = "BCFIPSJSSE"
)

func securityMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.FipsMode).
			To("quarkus.security.security-providers").
			Transformer(resolveSecurityProvider).
			ParamLabel("mode").
			MustBuild(),
	}
}

func resolveSecurityProvider(_, value string, ctx config.Context) string {
	switch value {
	case "strict":
		return fipsStrictProvider
	case "non-strict":
		return fipsProvider
	}
	features := strings.Split(ctx.Restart(NSPrefix+option.Features.Key()).String(), ",")
	if slices.Contains(features, "fips") {
		return fipsProvider
	}
	return ""
}

func truststoreMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.Truststore).
			ParamLabel("file").
			MustBuild(),
		FromOption(option.TruststoreIncludeDefault).
			MustBuild(),
	}
}
