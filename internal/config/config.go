package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LIFTMEET_SERVER_PORT
const EnvPrefix = "LIFTMEET"

// Config represents the liftmeet server configuration
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Log           LogConfig          `mapstructure:"log"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Coefficients  CoefficientsConfig `mapstructure:"coefficients"`
	Equipment     EquipmentConfig    `mapstructure:"equipment"`
	RateLimit     RateLimitConfig    `mapstructure:"ratelimit"`
	PublicBaseURL string             `mapstructure:"public_base_url"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig contains the SQLite location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AdminConfig contains the admin password. Empty means generate one at startup.
type AdminConfig struct {
	Password string `mapstructure:"password"`
}

// CoefficientsConfig points at federation table files. Empty paths use the bundled tables.
type CoefficientsConfig struct {
	ReshelFile     string `mapstructure:"reshel_file"`
	McCulloughFile string `mapstructure:"mccullough_file"`
}

// EquipmentConfig holds the default bar and clamp weights for plate loading
type EquipmentConfig struct {
	BarWeightMaleKg   float64 `mapstructure:"bar_weight_male_kg"`
	BarWeightFemaleKg float64 `mapstructure:"bar_weight_female_kg"`
	ClampWeightKg     float64 `mapstructure:"clamp_weight_kg"`
}

// RateLimitConfig limits the public API per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// New returns a viper instance with every default set and environment
// overrides enabled. Callers may bind flags into it before calling LoadFrom.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", 8081)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("database.path", "liftmeet.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("admin.password", "")
	v.SetDefault("coefficients.reshel_file", "")
	v.SetDefault("coefficients.mccullough_file", "")
	v.SetDefault("equipment.bar_weight_male_kg", 20.0)
	v.SetDefault("equipment.bar_weight_female_kg", 15.0)
	v.SetDefault("equipment.clamp_weight_kg", 2.5)
	v.SetDefault("ratelimit.requests_per_second", 20.0)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("public_base_url", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration from defaults, the optional file at path and the environment
func Load(path string) (*Config, error) {
	return LoadFrom(New(), path)
}

// LoadFrom reads configuration through v. A non-empty path must name a readable
// yaml, json or toml file.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s. Must be 'debug', 'info', 'warn', or 'error'", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s. Must be 'text' or 'json'", c.Log.Format)
	}

	if c.Equipment.BarWeightMaleKg <= 0 || c.Equipment.BarWeightFemaleKg <= 0 {
		return fmt.Errorf("bar weights must be positive")
	}
	if c.Equipment.ClampWeightKg < 0 {
		return fmt.Errorf("equipment.clamp_weight_kg must not be negative")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("ratelimit.requests_per_second must be positive")
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("ratelimit.burst must be at least 1")
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
