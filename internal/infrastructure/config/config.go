package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/fedejm/icecream-new-feature-test/internal/pkg/units"
)

var (
	once     sync.Once
	instance *Config
)

// Config holds all application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Scaling ScalingConfig `mapstructure:"scaling"`
	Logging LoggingConfig `mapstructure:"logging"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig locates the flat JSON documents the service reads and writes.
// Every document lives directly under DataDir; the recipe document is the
// only one whose absence is fatal.
type StorageConfig struct {
	DataDir        string        `mapstructure:"data_dir"`
	RecipesFile    string        `mapstructure:"recipes_file"`
	InventoryFile  string        `mapstructure:"inventory_file"`
	ThresholdsFile string        `mapstructure:"thresholds_file"`
	ExclusionsFile string        `mapstructure:"exclusions_file"`
	LineupFile     string        `mapstructure:"lineup_file"`
	FlavorsFile    string        `mapstructure:"flavors_file"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// ScalingConfig carries the operator-tunable scaling parameters. Containers
// maps a container label to its volume in liters.
type ScalingConfig struct {
	DefaultDensity float64            `mapstructure:"default_density"`
	Containers     map[string]float64 `mapstructure:"containers"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// Initialize sets up Viper with default configuration paths and environment bindings
func Initialize() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/batchery")
	viper.AddConfigPath("$HOME/.batchery")

	// Environment variable support
	viper.SetEnvPrefix("BATCHERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults and env vars
	}

	return nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "batchery")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	// Storage defaults keep the historical file names so existing data
	// directories load unchanged.
	viper.SetDefault("storage.data_dir", "./data")
	viper.SetDefault("storage.recipes_file", "recipes.json")
	viper.SetDefault("storage.inventory_file", "ingredient_inventory.json")
	viper.SetDefault("storage.thresholds_file", "ingredient_thresholds.json")
	viper.SetDefault("storage.exclusions_file", "excluded_ingredients.json")
	viper.SetDefault("storage.lineup_file", "weekly_lineup.json")
	viper.SetDefault("storage.flavors_file", "inventory.json")
	viper.SetDefault("storage.cache_ttl", "60s")

	// Scaling defaults: ice-cream mix specific gravity and the two
	// container sizes used on the production floor.
	viper.SetDefault("scaling.default_density", 1.03)
	viper.SetDefault("scaling.containers", map[string]float64{
		"5l":     5.0,
		"1.5gal": 1.5 * units.LitersPerGallon,
	})

	// Logging defaults
	viper.SetDefault("logging.level", "debug")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.output", "stdout")

	// CORS defaults
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
}

// Load returns the singleton config instance
func Load() (*Config, error) {
	var err error
	once.Do(func() {
		if err = Initialize(); err != nil {
			return
		}
		instance = &Config{}
		if err = viper.Unmarshal(instance); err != nil {
			err = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// GetAddress returns the server address string
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
