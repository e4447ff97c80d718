package mapper

import (
	"fmt"
	"time"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

func httpMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.HTTPEnabled).
			To("quarkus.http.insecure-requests").
			Transformer(insecureRequests).
			MustBuild(),
		FromOption(option.HTTPHost).
			To("quarkus.http.host").
			ParamLabel("host").
			MustBuild(),
		FromOption(option.HTTPPort).
			To("quarkus.http.port").
			ParamLabel("port").
			MustBuild(),
		FromOption(option.HTTPSPort).
			To("quarkus.http.ssl-port").
			ParamLabel("port").
			MustBuild(),
		FromOption(option.HTTPRelativePath).
			To("quarkus.http.root-path").
			ParamLabel("path").
			Validator(validateRelativePath).
			MustBuild(),
		FromOption(option.HTTPSCertificateFile).
			To("quarkus.http.ssl.certificate.files").
			ParamLabel("file").
			MustBuild(),
		FromOption(option.HTTPSCertificateKeyFile).
			To("quarkus.http.ssl.certificate.key-files").
			ParamLabel("file").
			AddValidateEnabled(OptionSet(option.HTTPSCertificateFile), "https-certificate-file is set").
			MustBuild(),
		FromOption(option.HTTPSKeyStorePassword).
			To("quarkus.http.ssl.certificate.key-store-password").
			ParamLabel("password").
			Masked().
			MustBuild(),
		FromOption(option.HTTPSCertificatesReloadPeriod).
			To("quarkus.http.ssl.certificate.reload-period").
			Transformer(reloadPeriod).
			Validator(validateReloadPeriod).
			ParamLabel("reload period").
			MustBuild(),
	}
}

func insecureRequests(_, value string, _ config.Context) string {
	if value == "true" {
		return "enabled"
	}
	return "disabled"
}

// reloadPeriod turns the disabled period -1 into an absent value
func reloadPeriod(_, value string, _ config.Context) string {
	if value == "-1" {
		return ""
	}
	return value
}

func validateReloadPeriod(value string) error {
	if value == "-1" {
		return nil
	}
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("Invalid reload period '%s': must be a duration such as 30s or 1h, or -1 to disable reloading", value)
	}
	return nil
}

func validateRelativePath(value string) error {
	if len(value) == 0 || value[0] != '/' {
		return fmt.Errorf("Invalid relative path '%s': the path must start with a '/'", value)
	}
	return nil
}
