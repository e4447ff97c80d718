package mapper

import "github.com/Hostzero-GmbH/keycloak-config/internal/option"

func healthMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.HealthEnabled).
			To("quarkus.smallrye-health.extensions.enabled").
			MustBuild(),
	}
}

func metricsMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.MetricsEnabled).
			To("quarkus.micrometer.enabled").
			MustBuild(),
		FromOption(option.CacheMetricsHistograms).
			EnabledWhen(OptionEquals(option.MetricsEnabled, "true"), "metrics are enabled").
			MustBuild(),
	}
}

func tracingMappers() []*PropertyMapper {
	otel := FeatureEnabled("opentelemetry")
	return []*PropertyMapper{
		FromOption(option.TracingEnabled).
			To("quarkus.otel.traces.enabled").
			EnabledWhen(otel, "feature 'opentelemetry' is enabled").
			MustBuild(),
		FromOption(option.TracingEndpoint).
			To("quarkus.otel.exporter.otlp.traces.endpoint").
			EnabledWhen(otel, "feature 'opentelemetry' is enabled").
			ParamLabel("endpoint").
			MustBuild(),
	}
}
