package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/viewport"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the shipment map service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the HTTP API and monitoring endpoints.
// - Routing: Routing provider selection and credentials.
// - Workers: The number of concurrent workers refreshing routes.
// - Interval: The duration between route refresh rounds.
// - Padding: Degrees added to both spans of every map viewport.
// - Cache: Valkey route cache settings.
// - NATSURL: NATS server for route events, empty disables publishing.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env      string         `yaml:"env"`                // Env is the current environment: local, development, production.
	Port     int            `yaml:"http.port"`          // Port is the HTTP server port.
	Routing  RoutingConfig  `yaml:"routing"`            // Routing provider configuration.
	Workers  int            `yaml:"refresher.workers"`  // The number of concurrent workers for refreshing routes.
	Interval time.Duration  `yaml:"refresher.interval"` // The duration between refresh rounds.
	Padding  float64        `yaml:"viewport.padding"`   // Viewport padding in degrees.
	Cache    CacheConfig    `yaml:"cache"`              // Route cache configuration.
	NATSURL  string         `yaml:"nats.url"`           // NATS server URL.
	Database PostgresConfig `yaml:"postgres"`           // Database holds the postgres database configuration
}

// RoutingConfig selects and configures the routing provider.
type RoutingConfig struct {
	Provider  string `yaml:"provider"`   // Provider is one of pcmiler, google, osrm.
	BaseURL   string `yaml:"base_url"`   // BaseURL overrides the provider endpoint.
	APIKey    string `yaml:"api_key"`    // APIKey for providers that need one.
	RateLimit int    `yaml:"rate_limit"` // RateLimit in requests per second.
}

// CacheConfig holds the Valkey route cache settings.
type CacheConfig struct {
	Addr string        `yaml:"addr"` // Addr of the Valkey server, empty disables caching.
	TTL  time.Duration `yaml:"ttl"`  // TTL of cached routes.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`      // Host is the database server address.
	Port     string `yaml:"port"`      // Port is the database server port.
	User     string `yaml:"user"`      // User is the database user.
	Password string `yaml:"password"`  // Password is the database user's password.
	Name     string `yaml:"db_name"`   // Name is the name of the database.
	SSLMode  string `yaml:"sslmode"`   // SSLMode is passed to the driver as is.
	MaxConns int32  `yaml:"max_conns"` // MaxConns caps the pool size.
}

// DSN returns the connection string for pgx.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

// MustLoad loads the configuration from the file named by COMPASS_CONFIG (optional)
// and the environment, and panics on invalid values.
func MustLoad() *Config {
	return MustLoadFile(os.Getenv("COMPASS_CONFIG"))
}

// MustLoadFile is MustLoad with an explicit config file path.
// An empty path looks for config.yaml in the working directory and ./configs.
//
// Variables from a .env file in the working directory are loaded first; they
// never override variables already set in the environment.
func MustLoadFile(path string) *Config {
	_ = godotenv.Load()

	v := newViper()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			panic("failed to read configuration file: " + err.Error())
		}
	}

	interval, err := time.ParseDuration(v.GetString("refresher.interval"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	port, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("refresher.workers"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	padding, err := strconv.ParseFloat(v.GetString("viewport.padding"), 64)
	if err != nil || !viewport.ValidPadding(padding) {
		panic("failed to parse viewport padding from configuration, must be a non-negative number")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		panic("failed to parse cache ttl from configuration")
	}
	if cacheTTL < time.Second {
		panic("cache ttl must be at least one second")
	}

	return &Config{
		Env:  v.GetString("env"),
		Port: port,
		Routing: RoutingConfig{
			Provider:  v.GetString("routing.provider"),
			BaseURL:   v.GetString("routing.base_url"),
			APIKey:    v.GetString("routing.api_key"),
			RateLimit: v.GetInt("routing.rate_limit"),
		},
		Workers:  workers,
		Interval: interval,
		Padding:  padding,
		Cache: CacheConfig{
			Addr: v.GetString("cache.addr"),
			TTL:  cacheTTL,
		},
		NATSURL: v.GetString("nats.url"),
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
			SSLMode:  v.GetString("postgres.sslmode"),
			MaxConns: v.GetInt32("postgres.max_conns"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("http.port", "8080")
	v.SetDefault("routing.provider", "pcmiler")
	v.SetDefault("routing.rate_limit", 0)
	v.SetDefault("refresher.workers", "4")
	v.SetDefault("refresher.interval", "10m")
	v.SetDefault("viewport.padding", "0.5")
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)

	// COMPASS_ROUTING_API_KEY -> routing.api_key
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database variables shared with the dispatch backend deployment.
	_ = v.BindEnv("postgres.host", "COMPASS_POSTGRES_HOST", "DB_HOST")
	_ = v.BindEnv("postgres.port", "COMPASS_POSTGRES_PORT", "DB_PORT")
	_ = v.BindEnv("postgres.user", "COMPASS_POSTGRES_USER", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "COMPASS_POSTGRES_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "COMPASS_POSTGRES_DB_NAME", "DB_NAME")

	return v
}
