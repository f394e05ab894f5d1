package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound   = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing = errors.New("config file is missing version field")
	ErrConfigVersionWrong   = errors.New("config file version mismatch")
	ErrUnknownFeedStrategy  = errors.New("unknown feed strategy")
)

// CurrentVersion is the expected config file version.
const CurrentVersion = 1

// Feed strategy values recognized in the config file. Only fan-out-on-read
// is implemented; fan_out_on_write is reserved for a future precomputed
// timeline pipeline.
const (
	StrategyFanOutOnRead  = "fan_out_on_read"
	StrategyFanOutOnWrite = "fan_out_on_write"
)

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Feed       Feed       `koanf:"feed"`
	API        API        `koanf:"api"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Include internal error detail in API error responses.
	ExposeErrors bool `koanf:"expose_errors"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Feed contains feed generation and caching configuration.
type Feed struct {
	// Cache TTL for feed pages in seconds.
	CacheTTL int `koanf:"cache_ttl"`
	// Maximum posts that can be fetched in a single request.
	MaxPosts int `koanf:"max_posts"`
	// Default number of posts per page.
	DefaultLimit int `koanf:"default_limit"`
	// Engagement weight applied to like counts.
	LikeWeight int `koanf:"like_weight"`
	// Engagement weight applied to comment counts.
	CommentWeight int `koanf:"comment_weight"`
	// Enable feed result caching.
	CacheEnabled bool `koanf:"cache_enabled"`
	// Feed assembly strategy. Only fan_out_on_read is implemented.
	Strategy string `koanf:"strategy"`
}

// API contains REST server configuration.
type API struct {
	// Listen address.
	Host string `koanf:"host"`
	// Listen port.
	Port int `koanf:"port"`
	// Requests per second allowed per client.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Burst size for the rate limiter.
	BurstSize int `koanf:"burst_size"`
}

// LoadConfig loads the configuration from the first config.toml found in the
// search paths. Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".socium",
		homeDir + "/.socium/config",
		"/etc/socium/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/config.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: config.toml", ErrConfigFileNotFound)
	}

	// Unmarshal cannot tell an omitted cache_enabled from an explicit false,
	// and an absent key must mean enabled.
	if !k.Exists("feed.cache_enabled") {
		if err := k.Set("feed.cache_enabled", true); err != nil {
			return nil, "", fmt.Errorf("error setting cache_enabled default: %w", err)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion(config.Version); err != nil {
		return nil, "", err
	}

	applyFeedDefaults(&config.Feed)

	// Fan-out-on-write is a recognized option without an implementation, so
	// refuse to start with it rather than silently serving read fan-out.
	switch config.Feed.Strategy {
	case StrategyFanOutOnRead:
	case StrategyFanOutOnWrite:
		return nil, "", fmt.Errorf("%w: %s is not implemented", ErrUnknownFeedStrategy, config.Feed.Strategy)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFeedStrategy, config.Feed.Strategy)
	}

	return &config, usedConfigPath, nil
}

// applyFeedDefaults fills in zero-valued feed settings.
func applyFeedDefaults(feed *Feed) {
	if feed.CacheTTL == 0 {
		feed.CacheTTL = 300
	}

	if feed.MaxPosts == 0 {
		feed.MaxPosts = 50
	}

	if feed.DefaultLimit == 0 {
		feed.DefaultLimit = 15
	}

	if feed.LikeWeight == 0 {
		feed.LikeWeight = 2
	}

	if feed.CommentWeight == 0 {
		feed.CommentWeight = 3
	}

	if feed.Strategy == "" {
		feed.Strategy = StrategyFanOutOnRead
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(current int) error {
	if current == 0 {
		return fmt.Errorf("%w: config.toml", ErrConfigVersionMissing)
	}

	if current != CurrentVersion {
		return fmt.Errorf("%w: config.toml (got: %d, expected: %d)",
			ErrConfigVersionWrong, current, CurrentVersion)
	}

	return nil
}
