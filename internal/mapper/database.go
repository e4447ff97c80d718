package mapper

import (
	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
)

// jdbcURLs are the default JDBC URLs per database vendor. The parts of the
// URL are options of their own, resolved when the URL is expanded.
var jdbcURLs = map[string]string{
	"dev-file": "jdbc:h2:file:data/h2/keycloakdb${kc.db-url-properties:;NON_KEYWORDS=VALUE;AUTO_SERVER=TRUE}",
	"dev-mem":  "jdbc:h2:mem:keycloakdb${kc.db-url-properties:;NON_KEYWORDS=VALUE}",
	"mariadb":  "jdbc:mariadb://${kc.db-url-host:localhost}:${kc.db-url-port:3306}/${kc.db-url-database:keycloak}${kc.db-url-properties:}",
	"mysql":    "jdbc:mysql://${kc.db-url-host:localhost}:${kc.db-url-port:3306}/${kc.db-url-database:keycloak}${kc.db-url-properties:}",
	"mssql":    "jdbc:sqlserver://${kc.db-url-host:localhost}:${kc.db-url-port:1433};databaseName=${kc.db-url-database:keycloak}${kc.db-url-properties:}",
	"oracle":   "jdbc:oracle:thin:@//${kc.db-url-host:localhost}:${kc.db-url-port:1521}/${kc.db-url-database:keycloak}",
	"postgres": "jdbc:postgresql://${kc.db-url-host:localhost}:${kc.db-url-port:5432}/${kc.db-url-database:keycloak}${kc.db-url-properties:}",
}

func databaseMappers() []*PropertyMapper {
	return []*PropertyMapper{
		FromOption(option.DB).
			To("quarkus.datasource.db-kind").
			Transformer(toDatabaseKind).
			ParamLabel("vendor").
			MustBuild(),
		FromOption(option.DBURL).
			To("quarkus.datasource.jdbc.url").
			MapFrom(option.DB, defaultJDBCURL).
			ParamLabel("jdbc-url").
			MustBuild(),
		FromOption(option.DBURLHost).
			ParamLabel("hostname").
			MustBuild(),
		FromOption(option.DBURLDatabase).
			ParamLabel("dbname").
			MustBuild(),
		FromOption(option.DBURLPort).
			ParamLabel("port").
			MustBuild(),
		FromOption(option.DBURLProperties).
			ParamLabel("properties").
			MustBuild(),
		FromOption(option.DBUsername).
			To("quarkus.datasource.username").
			MapFrom(option.DB, devDatabaseValue("sa")).
			ParamLabel("username").
			MustBuild(),
		FromOption(option.DBPassword).
			To("quarkus.datasource.password").
			MapFrom(option.DB, devDatabaseValue("password")).
			ParamLabel("password").
			Masked().
			MustBuild(),
		FromOption(option.DBPoolMaxSize).
			To("quarkus.datasource.jdbc.max-size").
			ParamLabel("size").
			MustBuild(),
	}
}

func isDevDatabase(vendor string) bool {
	return vendor == "dev-file" || vendor == "dev-mem"
}

func toDatabaseKind(_, vendor string, _ config.Context) string {
	switch {
	case isDevDatabase(vendor):
		return "h2"
	case vendor == "postgres":
		return "postgresql"
	default:
		return vendor
	}
}

func defaultJDBCURL(_, vendor string, _ config.Context) string {
	return jdbcURLs[vendor]
}

// devDatabaseValue returns a transformer that yields value for the
// embedded development databases only
func devDatabaseValue(value string) ValueMapper {
	return func(_, vendor string, _ config.Context) string {
		if isDevDatabase(vendor) {
			return value
		}
		return ""
	}
}
