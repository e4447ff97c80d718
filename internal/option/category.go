package option

// SupportLevel tells how a category of options is supported
type SupportLevel int

const (
	SupportLevelSupported SupportLevel = iota
	SupportLevelPreview
	SupportLevelExperimental
	SupportLevelDeprecated
)

func (s SupportLevel) String() string {
	switch s {
	case SupportLevelPreview:
		return "preview"
	case SupportLevelExperimental:
		return "experimental"
	case SupportLevelDeprecated:
		return "deprecated"
	default:
		return "supported"
	}
}

// Category groups options for help output and validation
type Category int

const (
	CategoryGeneral Category = iota
	CategoryCache
	CategoryConfig
	CategoryDatabase
	CategoryFeature
	CategoryHostname
	CategoryHTTP
	CategoryHealth
	CategoryMetrics
	CategoryTracing
	CategorySecurity
	CategoryTruststore
	CategoryLogging
	CategoryBootstrapAdmin
	CategoryProviders
)

var categoryInfo = map[Category]struct {
	heading string
	level   SupportLevel
}{
	CategoryGeneral:        {"General", SupportLevelSupported},
	CategoryCache:          {"Cache", SupportLevelSupported},
	CategoryConfig:         {"Config", SupportLevelSupported},
	CategoryDatabase:       {"Database", SupportLevelSupported},
	CategoryFeature:        {"Feature", SupportLevelSupported},
	CategoryHostname:       {"Hostname v2", SupportLevelSupported},
	CategoryHTTP:           {"HTTP(S)", SupportLevelSupported},
	CategoryHealth:         {"Health", SupportLevelSupported},
	CategoryMetrics:        {"Metrics", SupportLevelSupported},
	CategoryTracing:        {"Tracing", SupportLevelPreview},
	CategorySecurity:       {"Security", SupportLevelSupported},
	CategoryTruststore:     {"Truststore", SupportLevelSupported},
	CategoryLogging:        {"Logging", SupportLevelSupported},
	CategoryBootstrapAdmin: {"Bootstrap Admin", SupportLevelSupported},
	CategoryProviders:      {"Providers", SupportLevelSupported},
}

// Categories returns all categories in display order
func Categories() []Category {
	return []Category{
		CategoryGeneral, CategoryCache, CategoryConfig, CategoryDatabase, CategoryFeature,
		CategoryHostname, CategoryHTTP, CategoryHealth, CategoryMetrics, CategoryTracing,
		CategorySecurity, CategoryTruststore, CategoryLogging, CategoryBootstrapAdmin,
		CategoryProviders,
	}
}

// Heading is the human readable name used in help output
func (c Category) Heading() string {
	if info, ok := categoryInfo[c]; ok {
		return info.heading
	}
	return "Unknown"
}

func (c Category) SupportLevel() SupportLevel {
	return categoryInfo[c].level
}

// IsSupported reports whether options of this category are supported or deprecated
func (c Category) IsSupported() bool {
	l := c.SupportLevel()
	return l == SupportLevelSupported || l == SupportLevelDeprecated
}

func (c Category) String() string {
	return c.Heading()
}
