package mapper

import "github.com/go-logr/logr"

// DefaultMappers returns a fresh set of mappers for the option catalogue
func DefaultMappers() []*PropertyMapper {
	var all []*PropertyMapper
	for _, group := range [][]*PropertyMapper{
		cacheMappers(),
		databaseMappers(),
		hostnameMappers(),
		httpMappers(),
		healthMappers(),
		configKeystoreMappers(),
		metricsMappers(),
		featureMappers(),
		loggingMappers(),
		tracingMappers(),
		securityMappers(),
		truststoreMappers(),
		bootstrapAdminMappers(),
		providerMappers(),
	} {
		all = append(all, group...)
	}
	return all
}

// NewDefaultRegistry returns a registry holding DefaultMappers. Each call
// starts from a clean state, with no mapper disabled.
func NewDefaultRegistry(log logr.Logger) *Registry {
	r := NewRegistry(log)
	r.AddAll(DefaultMappers()...)
	return r
}
