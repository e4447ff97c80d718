package option

import (
	"github.com/Hostzero-GmbH/keycloak-config/internal/profile"
)

// Providers
var (
	Provider = New("provider-spi-<spi>", TypeString).
		Category(CategoryProviders).
		Description("Configure a single provider for the given SPI.").
		BuildTime(true).
		MustBuild()

	ProviderDefault = New("provider-default-spi-<spi>", TypeString).
		Category(CategoryProviders).
		Description("Specify the default provider id for the given SPI.").
		BuildTime(true).
		MustBuild()

	ProviderEnabled = New("provider-enabled-<spi and id>", TypeBool).
		Category(CategoryProviders).
		Description("Enable or disable the given SPI and id.").
		BuildTime(true).
		MustBuild()
)

func providerOptions() []*Option {
	return []*Option{Provider, ProviderDefault, ProviderEnabled}
}

// Security
var (
	FipsMode = New("fips-mode", TypeEnum).
		Category(CategorySecurity).
		Description("Sets the FIPS mode. If 'non-strict' is set, FIPS is enabled but on non-approved mode. For full FIPS compliance, set 'strict' to run on approved mode.").
		ExpectedValues("non-strict", "strict", "disabled").
		Default("disabled").
		BuildTime(true).
		MustBuild()
)

func securityOptions() []*Option {
	return []*Option{FipsMode}
}

// Truststore
var (
	Truststore = New("truststore", TypeList).
		Category(CategoryTruststore).
		Description("List of pkcs12 (.p12 or .pfx) or PEM files that will be used to construct the truststore used at runtime.").
		MustBuild()

	TruststoreIncludeDefault = New("truststore-include-default", TypeBool).
		Category(CategoryTruststore).
		Description("Whether to include the default truststore certs when using the --truststore option.").
		Default("true").
		MustBuild()
)

func truststoreOptions() []*Option {
	return []*Option{Truststore, TruststoreIncludeDefault}
}

// Database
var (
	DB = New("db", TypeEnum).
		Category(CategoryDatabase).
		Description("The database vendor.").
		ExpectedValues("dev-file", "dev-mem", "mariadb", "mssql", "mysql", "oracle", "postgres").
		Default("dev-file").
		BuildTime(true).
		MustBuild()

	DBURL = New("db-url", TypeString).
		Category(CategoryDatabase).
		Description("The full database JDBC URL. If not provided, a default URL is set based on the selected database vendor.").
		MustBuild()

	DBURLHost = New("db-url-host", TypeString).
		Category(CategoryDatabase).
		Description("Sets the hostname of the default JDBC URL of the chosen vendor.").
		MustBuild()

	DBURLDatabase = New("db-url-database", TypeString).
		Category(CategoryDatabase).
		Description("Sets the database name of the default JDBC URL of the chosen vendor.").
		MustBuild()

	DBURLPort = New("db-url-port", TypeInt).
		Category(CategoryDatabase).
		Description("Sets the port of the default JDBC URL of the chosen vendor. If the `db-url` option is set, this option is ignored.").
		MustBuild()

	DBURLProperties = New("db-url-properties", TypeString).
		Category(CategoryDatabase).
		Description("Sets the properties of the default JDBC URL of the chosen vendor. Make sure to set the properties accordingly to the format expected by the database vendor, as well as appending the right character at the beginning of this property value.").
		MustBuild()

	DBUsername = New("db-username", TypeString).
		Category(CategoryDatabase).
		Description("The username of the database user.").
		MustBuild()

	DBPassword = New("db-password", TypeString).
		Category(CategoryDatabase).
		Description("The password of the database user.").
		MustBuild()

	DBPoolMaxSize = New("db-pool-max-size", TypeInt).
		Category(CategoryDatabase).
		Description("The maximum size of the connection pool.").
		Default("100").
		MustBuild()
)

func databaseOptions() []*Option {
	return []*Option{DB, DBURL, DBURLHost, DBURLDatabase, DBURLPort, DBURLProperties, DBUsername, DBPassword, DBPoolMaxSize}
}

// HTTP(S)
var (
	HTTPEnabled = New("http-enabled", TypeBool).
		Category(CategoryHTTP).
		Description("Enables the HTTP listener.").
		Default("false").
		MustBuild()

	HTTPHost = New("http-host", TypeString).
		Category(CategoryHTTP).
		Description("The used HTTP Host.").
		Default("0.0.0.0").
		MustBuild()

	HTTPPort = New("http-port", TypeInt).
		Category(CategoryHTTP).
		Description("The used HTTP port.").
		Default("8080").
		MustBuild()

	HTTPSPort = New("https-port", TypeInt).
		Category(CategoryHTTP).
		Description("The used HTTPS port.").
		Default("8443").
		MustBuild()

	HTTPRelativePath = New("http-relative-path", TypeString).
		Category(CategoryHTTP).
		Description("Set the path relative to '/' for serving resources. The path must start with a '/'.").
		Default("/").
		BuildTime(true).
		MustBuild()

	HTTPSCertificateFile = New("https-certificate-file", TypeString).
		Category(CategoryHTTP).
		Description("The file path to a server certificate or certificate chain in PEM format.").
		MustBuild()

	HTTPSCertificateKeyFile = New("https-certificate-key-file", TypeString).
		Category(CategoryHTTP).
		Description("The file path to a private key in PEM format.").
		MustBuild()

	HTTPSKeyStorePassword = New("https-key-store-password", TypeString).
		Category(CategoryHTTP).
		Description("The password of the key store file.").
		Default("password").
		MustBuild()

	HTTPSCertificatesReloadPeriod = New("https-certificates-reload-period", TypeString).
		Category(CategoryHTTP).
		Description("Interval on which to reload key store, trust store, and certificate files. Must be a duration, -1 disables reloading.").
		Default("1h").
		MustBuild()
)

func httpOptions() []*Option {
	return []*Option{
		HTTPEnabled, HTTPHost, HTTPPort, HTTPSPort, HTTPRelativePath,
		HTTPSCertificateFile, HTTPSCertificateKeyFile, HTTPSKeyStorePassword,
		HTTPSCertificatesReloadPeriod,
	}
}

// Hostname
var (
	Hostname = New("hostname", TypeString).
		Category(CategoryHostname).
		Description("Address at which the server is exposed. Can be a full URL, or just a hostname.").
		MustBuild()

	HostnameAdmin = New("hostname-admin", TypeString).
		Category(CategoryHostname).
		Description("Address for accessing the administration console.").
		MustBuild()

	HostnameStrict = New("hostname-strict", TypeBool).
		Category(CategoryHostname).
		Description("Disables dynamically resolving the hostname from request headers.").
		Default("true").
		MustBuild()
)

func hostnameOptions() []*Option {
	return []*Option{Hostname, HostnameAdmin, HostnameStrict}
}

// Features
var (
	Features = New("features", TypeList).
		Category(CategoryFeature).
		Description("Enables a set of one or more features.").
		ExpectedValues(append(profile.FeatureKeys(), profile.PreviewKey)...).
		BuildTime(true).
		MustBuild()

	FeaturesDisabled = New("features-disabled", TypeList).
		Category(CategoryFeature).
		Description("Disables a set of one or more features.").
		ExpectedValues(profile.FeatureKeys()...).
		BuildTime(true).
		MustBuild()
)

func featureOptions() []*Option {
	return []*Option{Features, FeaturesDisabled}
}

// Logging
var (
	Log = New("log", TypeList).
		Category(CategoryLogging).
		Description("Enable one or more log handlers in a comma-separated list.").
		ExpectedValues("console", "file", "syslog").
		Default("console").
		MustBuild()

	LogLevel = New("log-level", TypeList).
		Category(CategoryLogging).
		Description("The log level of the root category or a comma-separated list of individual categories and their levels.").
		Default("info").
		Strict(false).
		MustBuild()

	LogLevelCategory = New("log-level-<category>", TypeEnum).
		Category(CategoryLogging).
		Description("The log level of a category. Takes precedence over the 'log-level' option.").
		ExpectedValues("off", "fatal", "error", "warn", "info", "debug", "trace", "all").
		CaseInsensitive().
		MustBuild()

	LogConsoleOutput = New("log-console-output", TypeEnum).
		Category(CategoryLogging).
		Description("Set the log output to JSON or default (plain) unstructured logging.").
		ExpectedValues("default", "json").
		Default("default").
		MustBuild()
)

func loggingOptions() []*Option {
	return []*Option{Log, LogLevel, LogLevelCategory, LogConsoleOutput}
}

// Config
var (
	ConfigFile = New("config-file", TypeString).
		Category(CategoryConfig).
		Description("Set the path to a configuration file.").
		Hidden().
		MustBuild()

	ConfigKeystore = New("config-keystore", TypeString).
		Category(CategoryConfig).
		Description("Specifies a path to the KeyStore Configuration Source.").
		MustBuild()

	ConfigKeystorePassword = New("config-keystore-password", TypeString).
		Category(CategoryConfig).
		Description("Specifies a password to the KeyStore Configuration Source.").
		MustBuild()

	ConfigKeystoreType = New("config-keystore-type", TypeString).
		Category(CategoryConfig).
		Description("Specifies a type of the KeyStore Configuration Source.").
		Default("PKCS12").
		MustBuild()
)

func configOptions() []*Option {
	return []*Option{ConfigFile, ConfigKeystore, ConfigKeystorePassword, ConfigKeystoreType}
}

// Health and metrics
var (
	HealthEnabled = New("health-enabled", TypeBool).
		Category(CategoryHealth).
		Description("If the server should expose health check endpoints.").
		Default("false").
		BuildTime(true).
		MustBuild()

	MetricsEnabled = New("metrics-enabled", TypeBool).
		Category(CategoryMetrics).
		Description("If the server should expose metrics.").
		Default("false").
		BuildTime(true).
		MustBuild()

	CacheMetricsHistograms = New("cache-metrics-histograms-enabled", TypeBool).
		Category(CategoryMetrics).
		Description("Enable histograms for metrics for the embedded caches.").
		Default("false").
		BuildTime(true).
		MustBuild()
)

func healthOptions() []*Option {
	return []*Option{HealthEnabled}
}

func metricsOptions() []*Option {
	return []*Option{MetricsEnabled, CacheMetricsHistograms}
}

// Tracing
var (
	TracingEnabled = New("tracing-enabled", TypeBool).
		Category(CategoryTracing).
		Description("Enables the OpenTelemetry tracing.").
		Default("false").
		BuildTime(true).
		MustBuild()

	TracingEndpoint = New("tracing-endpoint", TypeString).
		Category(CategoryTracing).
		Description("OpenTelemetry endpoint to connect to.").
		Default("http://localhost:4317").
		MustBuild()
)

func tracingOptions() []*Option {
	return []*Option{TracingEnabled, TracingEndpoint}
}

// Cache
var (
	Cache = New("cache", TypeEnum).
		Category(CategoryCache).
		Description("Defines the cache mechanism for high-availability.").
		ExpectedValues("ispn", "local").
		Default("ispn").
		BuildTime(true).
		MustBuild()

	CacheConfigFile = New("cache-config-file", TypeString).
		Category(CategoryCache).
		Description("Defines the file from which cache configuration should be loaded from.").
		BuildTime(true).
		MustBuild()
)

func cacheOptions() []*Option {
	return []*Option{Cache, CacheConfigFile}
}

// Bootstrap admin
var (
	BootstrapAdminUsername = New("bootstrap-admin-username", TypeString).
		Category(CategoryBootstrapAdmin).
		Description("Temporary bootstrap admin username.").
		Default("temp-admin").
		MustBuild()

	BootstrapAdminPassword = New("bootstrap-admin-password", TypeString).
		Category(CategoryBootstrapAdmin).
		Description("Temporary bootstrap admin password.").
		MustBuild()
)

func bootstrapAdminOptions() []*Option {
	return []*Option{BootstrapAdminUsername, BootstrapAdminPassword}
}
