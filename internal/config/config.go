package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP
// requests. It matches a common desktop Chrome build; the board blocks
// clients whose request fingerprint does not resemble a browser.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultBaseURL is the MSIT website root.
const DefaultBaseURL = "https://www.msit.go.kr"

type Config struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`

	Pages      int     `mapstructure:"pages"`       // Listing pages to scan
	OutDir     string  `mapstructure:"outdir"`      // Output directory for downloads
	Delay      float64 `mapstructure:"delay"`       // Seconds between requests
	FilePrefix string  `mapstructure:"file_prefix"` // Output filename prefix

	// Extensions is the accepted attachment extension set, lowercase.
	Extensions []string `mapstructure:"extensions"`

	// MinFileSize is the validity threshold in bytes: a downloaded file must be
	// strictly larger to count as real. The board answers bad download requests
	// with a small HTML error page and status 200; anything at or under this
	// size is assumed to be such a page.
	MinFileSize int64 `mapstructure:"min_file_size"`

	FetchTimeout    string `mapstructure:"fetch_timeout"`    // Go duration string, metadata fetches
	DownloadTimeout string `mapstructure:"download_timeout"` // Go duration string, file downloads

	LogLevel string `mapstructure:"log_level"`

	Cache struct {
		Provider      string `mapstructure:"provider"` // "", "memory" or "redis"
		Size          int    `mapstructure:"size"`
		TTL           string `mapstructure:"ttl"` // Go duration string
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var logger zerolog.Logger

func init() {
	// Console writer for human-readable progress output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()
}

// Load reads configuration from config.yaml (if present), APP_-prefixed
// environment variables, and any flags the caller has bound into viper,
// then applies the configured log level.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("base_url", DefaultBaseURL)
	viper.SetDefault("pages", 3)
	viper.SetDefault("outdir", "msit-docs")
	viper.SetDefault("delay", 1.0)
	viper.SetDefault("file_prefix", "msit")
	viper.SetDefault("extensions", []string{"hwp", "hwpx", "odt"})
	viper.SetDefault("min_file_size", 100)
	viper.SetDefault("fetch_timeout", "30s")
	viper.SetDefault("download_timeout", "60s")
	viper.SetDefault("cache.size", 200)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("metrics.address", "localhost")
	viper.SetDefault("metrics.port", 9090)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	applyLogLevel(config.LogLevel)
	return &config, nil
}

func applyLogLevel(value string) {
	level := zerolog.InfoLevel // default
	if value != "" {
		if parsedLevel, err := zerolog.ParseLevel(value); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", value).Msg("Invalid log level, using default 'info'")
		}
	}
	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
}

// FetchTimeoutDuration parses the metadata fetch timeout, defaulting to 30s.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return parseDuration(c.FetchTimeout, 30*time.Second)
}

// DownloadTimeoutDuration parses the download timeout, defaulting to 60s.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	return parseDuration(c.DownloadTimeout, 60*time.Second)
}

// DelayDuration converts the configured delay in seconds to a duration.
func (c *Config) DelayDuration() time.Duration {
	if c.Delay <= 0 {
		return 0
	}
	return time.Duration(c.Delay * float64(time.Second))
}

// CacheTTLDuration parses the cache TTL, defaulting to 1h.
func (c *Config) CacheTTLDuration() time.Duration {
	return parseDuration(c.Cache.TTL, time.Hour)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("duration", value).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}

// GetLogger returns the process-wide logger.
func GetLogger() zerolog.Logger {
	return logger
}
