// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	NATS        NATSConfig
	Trends      TrendsConfig
	Publish     PublishConfig
	Storage     StorageConfig
}

// ServerConfig holds admin server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// NATSConfig holds NATS configuration. An empty URL disables the event bus.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// TrendsConfig holds trend aggregation configuration
type TrendsConfig struct {
	CacheTTL           time.Duration
	SourceTimeout      time.Duration
	Subreddits         []string
	FeedURLs           []string
	TwitterBearerToken string
	TwitterQueries     []string
}

// PublishConfig holds publication pipeline configuration
type PublishConfig struct {
	Author                 string
	MinPostsPerDay         int
	MaxPostsPerDay         int
	PublishTimes           []string
	RefreshInterval        time.Duration
	Timezone               string
	OpportunisticThreshold float64
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	RegistryPath     string
	ContentPath      string
	BackupPath       string
	LegacyExportPath string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "autopress"),
		},
		Trends: TrendsConfig{
			CacheTTL:      getEnvAsDuration("TRENDS_CACHE_TTL", 1*time.Hour),
			SourceTimeout: getEnvAsDuration("TRENDS_SOURCE_TIMEOUT", 15*time.Second),
			Subreddits:    getEnvAsSlice("TRENDS_SUBREDDITS", []string{"stocks", "investing", "CryptoCurrency"}),
			FeedURLs: getEnvAsSlice("TRENDS_FEED_URLS", []string{
				"https://feeds.content.dowjones.io/public/rss/mw_topstories",
			}),
			TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			TwitterQueries:     getEnvAsSlice("TRENDS_TWITTER_QUERIES", []string{"$SPY", "$BTC", "$NVDA"}),
		},
		Publish: PublishConfig{
			Author:                 getEnv("PUBLISH_AUTHOR", "Market Desk"),
			MinPostsPerDay:         getEnvAsInt("PUBLISH_MIN_POSTS_PER_DAY", 3),
			MaxPostsPerDay:         getEnvAsInt("PUBLISH_MAX_POSTS_PER_DAY", 3),
			PublishTimes:           getEnvAsSlice("PUBLISH_TIMES", []string{"09:30", "13:00", "17:30"}),
			RefreshInterval:        getEnvAsDuration("PUBLISH_REFRESH_INTERVAL", 2*time.Hour),
			Timezone:               getEnv("PUBLISH_TIMEZONE", "America/New_York"),
			OpportunisticThreshold: getEnvAsFloat("PUBLISH_OPPORTUNISTIC_THRESHOLD", 0.8),
		},
		Storage: StorageConfig{
			RegistryPath:     getEnv("STORAGE_REGISTRY_PATH", "data/registry.json"),
			ContentPath:      getEnv("STORAGE_CONTENT_PATH", "data/posts.json"),
			BackupPath:       getEnv("STORAGE_BACKUP_PATH", "data/posts.json.bak"),
			LegacyExportPath: getEnv("STORAGE_LEGACY_EXPORT_PATH", ""),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Publish.MaxPostsPerDay < config.Publish.MinPostsPerDay {
		return fmt.Errorf("max posts per day (%d) must not be below min posts per day (%d)",
			config.Publish.MaxPostsPerDay, config.Publish.MinPostsPerDay)
	}

	if len(config.Publish.PublishTimes) == 0 {
		return fmt.Errorf("at least one publish time is required")
	}

	for _, t := range config.Publish.PublishTimes {
		if _, _, err := ParseClock(t); err != nil {
			return err
		}
	}

	return nil
}

// ParseClock parses a HH:MM wall-clock time string
func ParseClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hour, minute, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
