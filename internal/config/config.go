package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"whisperguard/internal/moderation"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	ReputationTTL time.Duration `mapstructure:"reputation_ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ModerationConfig is the engine tuning tree: history window, call
// timeout, weight tables, and policy thresholds. Defaults come from
// the moderation package so config files only list overrides.
type ModerationConfig struct {
	Engine moderation.EngineConfig `mapstructure:"engine"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/whisperguard")
	}

	// Environment variables
	v.SetEnvPrefix("WHISPERGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "WHISPERGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "WHISPERGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "WHISPERGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "WHISPERGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "WHISPERGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "WHISPERGUARD_DATABASE_USER")
	v.BindEnv("database.password", "WHISPERGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "WHISPERGUARD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "WHISPERGUARD_DATABASE_SSLMODE")
	v.BindEnv("nats.enabled", "WHISPERGUARD_NATS_ENABLED")
	v.BindEnv("nats.url", "WHISPERGUARD_NATS_URL")
	v.BindEnv("app.environment", "WHISPERGUARD_APP_ENVIRONMENT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env cover a
		// full degraded boot
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "whisperguard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "whisperguard:")
	v.SetDefault("redis.reputation_ttl", "5m")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.stream_name", "WHISPERGUARD_MODERATION")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	eng := moderation.DefaultEngineConfig()
	v.SetDefault("moderation.engine.history_limit", eng.HistoryLimit)
	v.SetDefault("moderation.engine.analysis_timeout", eng.AnalysisTimeout)
	v.SetDefault("moderation.engine.thresholds.spam_medium", eng.Thresholds.SpamMedium)
	v.SetDefault("moderation.engine.thresholds.spam_high", eng.Thresholds.SpamHigh)
	v.SetDefault("moderation.engine.thresholds.spam_critical", eng.Thresholds.SpamCritical)
	v.SetDefault("moderation.engine.thresholds.scam_medium", eng.Thresholds.ScamMedium)
	v.SetDefault("moderation.engine.thresholds.scam_high", eng.Thresholds.ScamHigh)
	v.SetDefault("moderation.engine.thresholds.scam_critical", eng.Thresholds.ScamCritical)
}
