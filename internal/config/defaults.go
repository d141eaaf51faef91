package config

const (
	defaultDataDir            = "~/.local/share/fieldguide"
	defaultCacheDir           = "~/.local/share/fieldguide/cache"
	defaultLogDir             = "~/.local/share/fieldguide/logs"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultCatalogDir         = "~/.config/fieldguide/catalogs"
	defaultDomain             = "birds"
	defaultSearchURL          = "https://search.idigbio.org/v2/search/records/"
	defaultResultLimit        = 15
	defaultFetchWorkers       = 4
	defaultRequestTimeout     = 30
	defaultBatchTimeout       = 480
	defaultSweepIntervalHours = 48
	defaultMaxFileBytes       = 8_000_000
	defaultMatchTolerance     = 3
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Catalog: Catalog{
			Dir:           defaultCatalogDir,
			DefaultDomain: defaultDomain,
		},
		Fetcher: Fetcher{
			SearchURL:      defaultSearchURL,
			ResultLimit:    defaultResultLimit,
			Workers:        defaultFetchWorkers,
			RequestTimeout: defaultRequestTimeout,
			BatchTimeout:   defaultBatchTimeout,
		},
		Cache: Cache{
			SweepEnabled:       true,
			SweepIntervalHours: defaultSweepIntervalHours,
			MaxFileBytes:       defaultMaxFileBytes,
		},
		Matcher: Matcher{
			Tolerance: defaultMatchTolerance,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
