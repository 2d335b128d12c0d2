package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata" // containers often ship without a zoneinfo database

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server          ServerConfig   `yaml:"server"`
	Database        DatabaseConfig `yaml:"database"`
	Engine          EngineConfig   `yaml:"engine"`
	Tariffs         []WindowSeed   `yaml:"tariffs"`
	PrivilegedZones []WindowSeed   `yaml:"privileged_zones"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// EngineConfig configures the segment evaluation engine.
type EngineConfig struct {
	Timezone                 string         `yaml:"timezone"`
	Location                 *time.Location `yaml:"-"`
	DefaultMinParkingMinutes int            `yaml:"default_min_parking_minutes"`
	WindowCacheTTLSeconds    int            `yaml:"window_cache_ttl_seconds"`
}

// WindowSeed describes weekly windows for one tariff or privileged zone.
// Days are short English weekday names, Start and End are "HH:MM" local clock times.
type WindowSeed struct {
	ID    string   `yaml:"id"`
	Days  []string `yaml:"days"`
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = "Europe/Ljubljana"
	}
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Engine.Timezone, err)
	}
	cfg.Engine.Location = loc

	if cfg.Engine.DefaultMinParkingMinutes < 1 || cfg.Engine.DefaultMinParkingMinutes > 720 {
		log.Printf("engine.default_min_parking_minutes is not set or out of range; defaulting to 120")
		cfg.Engine.DefaultMinParkingMinutes = 120
	}
	if cfg.Engine.WindowCacheTTLSeconds <= 0 {
		cfg.Engine.WindowCacheTTLSeconds = 60
	}
	return nil
}

// CacheTTL returns the HTTP response cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// WindowCacheTTL returns the lifetime of cached calendar windows.
func (e EngineConfig) WindowCacheTTL() time.Duration {
	return time.Duration(e.WindowCacheTTLSeconds) * time.Second
}
