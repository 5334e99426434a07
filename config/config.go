package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"listing_resolver/models"
)

const maxDelay = 10 * time.Second

type Config struct {
	Search    SearchConfig
	Index     IndexConfig
	Store     StoreConfig
	Cache     CacheConfig
	Pipeline  PipelineConfig
	Scheduler SchedulerConfig
	Target    TargetConfig
	ProxyURL  string
	LogLevel  string
}

// SearchConfig holds web-search API credentials. An empty Key disables the
// search client entirely (queries return no results).
type SearchConfig struct {
	Key            string
	Endpoint       string
	CustomEndpoint string
	CustomConfigID string
	Count          int
}

// IndexConfig points at the optional external document index. An empty Host
// disables the index lookup strategy.
type IndexConfig struct {
	Host      string
	APIKey    string
	IndexName string
	TopN      int
}

type StoreConfig struct {
	PostgresDSN string
	SQLitePath  string
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// PipelineConfig enumerates the per-run resolution flags from the batch
// entry point contract.
type PipelineConfig struct {
	Delay             time.Duration
	LandMode          bool
	MLSFirst          bool
	RequireStateMatch bool
	DefaultMLSBoard   string
	MaxMLSCandidates  int
	EnrichConcurrency int
	Defaults          models.Defaults
}

type SchedulerConfig struct {
	Cron     string
	Interval time.Duration
	WatchDir string
}

// TargetConfig describes the listing site URLs are resolved against.
type TargetConfig struct {
	Domain         string
	BrowseBaseURL  string
	BrowserFetcher bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Search: SearchConfig{
			Key:            os.Getenv("SEARCH_API_KEY"),
			Endpoint:       getEnv("SEARCH_ENDPOINT", "https://api.bing.microsoft.com/v7.0/search"),
			CustomEndpoint: getEnv("SEARCH_CUSTOM_ENDPOINT", "https://api.bing.microsoft.com/v7.0/custom/search"),
			CustomConfigID: os.Getenv("SEARCH_CUSTOM_CONFIG"),
			Count:          getEnvInt("SEARCH_COUNT", 15),
		},
		Index: IndexConfig{
			Host:      os.Getenv("INDEX_HOST"),
			APIKey:    os.Getenv("INDEX_API_KEY"),
			IndexName: getEnv("INDEX_NAME", "listings"),
			TopN:      getEnvInt("INDEX_TOP_N", 3),
		},
		Store: StoreConfig{
			PostgresDSN: os.Getenv("HISTORY_DB_URL"),
			SQLitePath:  getEnv("DB_PATH", "resolver.db"),
		},
		Cache: CacheConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           time.Duration(getEnvInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		},
		Pipeline: PipelineConfig{
			Delay:             time.Duration(getEnvInt("RESOLVE_DELAY_MS", 1000)) * time.Millisecond,
			LandMode:          getEnvBool("LAND_MODE", false),
			MLSFirst:          getEnvBool("MLS_FIRST", true),
			RequireStateMatch: getEnvBool("REQUIRE_STATE_MATCH", true),
			DefaultMLSBoard:   os.Getenv("DEFAULT_MLS_BOARD"),
			MaxMLSCandidates:  getEnvInt("MAX_MLS_CANDIDATES", 6),
			EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 6),
			Defaults: models.Defaults{
				City:  os.Getenv("DEFAULT_CITY"),
				State: os.Getenv("DEFAULT_STATE"),
				Zip:   os.Getenv("DEFAULT_ZIP"),
			},
		},
		Scheduler: SchedulerConfig{
			Cron:     os.Getenv("RESOLVE_CRON"),
			WatchDir: getEnv("WATCH_DIR", "inbox"),
		},
		Target: TargetConfig{
			Domain:         getEnv("TARGET_DOMAIN", "zillow.com"),
			BrowseBaseURL:  getEnv("TARGET_BROWSE_URL", "https://www.zillow.com/homes"),
			BrowserFetcher: getEnvBool("BROWSER_FETCHER", false),
		},
		ProxyURL: os.Getenv("PROXY_URL"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if interval := os.Getenv("RESOLVE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	// Politeness throttle only; cap so a typo cannot stall a batch.
	if cfg.Pipeline.Delay > maxDelay {
		cfg.Pipeline.Delay = maxDelay
	}
	if cfg.Pipeline.Delay < 0 {
		cfg.Pipeline.Delay = 0
	}

	if err := cfg.loadDefaultsFile(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDefaultsFile overlays operator defaults from defaults.yaml when the
// file exists. Env vars win over the file.
func (c *Config) loadDefaultsFile() error {
	path := getEnv("DEFAULTS_FILE", "defaults.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fileDefaults models.Defaults
	if err := yaml.Unmarshal(data, &fileDefaults); err != nil {
		return err
	}

	if c.Pipeline.Defaults.City == "" {
		c.Pipeline.Defaults.City = fileDefaults.City
	}
	if c.Pipeline.Defaults.State == "" {
		c.Pipeline.Defaults.State = fileDefaults.State
	}
	if c.Pipeline.Defaults.Zip == "" {
		c.Pipeline.Defaults.Zip = fileDefaults.Zip
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return defaultVal
}
