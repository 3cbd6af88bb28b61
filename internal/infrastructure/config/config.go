package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	OTLP   OTLPConfig   `mapstructure:"otlp"`
	Cart   CartConfig   `mapstructure:"cart"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OTLPConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// CartConfig controls the session cart.
type CartConfig struct {
	// SeedDemo fills the catalog and cart with the demo products on start.
	SeedDemo bool `mapstructure:"seed_demo"`
}

// LoadConfig reads config.yaml from the working directory or ./etc when
// present, then applies environment overrides on top of the defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./etc")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("otlp.enabled", true)
	v.SetDefault("otlp.endpoint", "localhost:4317")
	v.SetDefault("otlp.service_name", "shopping-cart")
	v.SetDefault("otlp.environment", "development")
	v.SetDefault("cart.seed_demo", true)

	// server.port -> SERVER_PORT, cart.seed_demo -> CART_SEED_DEMO
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// OpenTelemetry keeps its conventional variable names.
	envAliases := map[string]string{
		"otlp.enabled":      "OTEL_ENABLED",
		"otlp.endpoint":     "OTEL_EXPORTER_OTLP_ENDPOINT",
		"otlp.service_name": "OTEL_SERVICE_NAME",
		"otlp.environment":  "OTEL_ENVIRONMENT",
	}
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Address returns the host:port the server listens on.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
