// Package config carga la configuración del cliente y del devapi:
// petcare.yaml (opcional) + variables PETCARE_* + .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "PETCARE"

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
	DevAPI   DevAPIConfig   `mapstructure:"devapi"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CircuitBreaker bool          `mapstructure:"circuit_breaker"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	Profile       string `mapstructure:"profile"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

type DevAPIConfig struct {
	Addr      string `mapstructure:"addr"`
	JWTSecret string `mapstructure:"jwt_secret"`
	Seed      bool   `mapstructure:"seed"`
}

type BookingConfig struct {
	ConfirmationDelay time.Duration `mapstructure:"confirmation_delay"`
}

type CheckoutConfig struct {
	TaxRate float64 `mapstructure:"tax_rate"`
}

// Backends soportados para guardar la sesión del CLI.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.circuit_breaker", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.path", "")
	v.SetDefault("session.profile", "default")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.postgres_dsn", "")

	v.SetDefault("devapi.addr", ":8080")
	v.SetDefault("devapi.jwt_secret", "dev-secret-change-me")
	v.SetDefault("devapi.seed", true)

	v.SetDefault("booking.confirmation_delay", 2*time.Second)
	v.SetDefault("checkout.tax_rate", 0.08)
}

// Load lee la configuración. file puede venir vacío: entonces se busca
// petcare.yaml en ./, $HOME/.petcare/ y /etc/petcare/, y si no existe se
// usan defaults + env.
func Load(file string) (*Config, error) {
	// .env es opcional; las variables ya exportadas tienen prioridad.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("petcare")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath("$HOME/.petcare/")
		v.AddConfigPath("/etc/petcare/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}

	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: unknown session.backend %q", ErrInvalidConfig, c.Session.Backend)
	}
	if c.Session.Backend == BackendPostgres && strings.TrimSpace(c.Session.PostgresDSN) == "" {
		return fmt.Errorf("%w: session.postgres_dsn is required for the postgres backend", ErrInvalidConfig)
	}
	if c.Session.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Session.Path = filepath.Join(home, ".petcare", "session.json")
		} else {
			c.Session.Path = filepath.Join(".petcare", "session.json")
		}
	}

	if c.Checkout.TaxRate < 0 {
		return fmt.Errorf("%w: checkout.tax_rate must be >= 0", ErrInvalidConfig)
	}
	// 0 desactiva la pausa de confirmación
	if c.Booking.ConfirmationDelay < 0 {
		c.Booking.ConfirmationDelay = 0
	}
	return nil
}
