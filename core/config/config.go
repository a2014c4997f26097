// Package config provides shared configuration loading for plantd services.
package config

import (
	"fmt"
	"reflect"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the base configuration embedded by every service-specific
// configuration struct. It carries no fields of its own today; it exists so
// shared helpers can be added without touching every embedder.
type Config struct{}

// ServiceConfig identifies a service instance for registration and logging.
type ServiceConfig struct {
	ID string `mapstructure:"id"`
}

// LokiConfig configures shipping of log entries to a Loki endpoint.
type LokiConfig struct {
	Address string            `mapstructure:"address"`
	Labels  map[string]string `mapstructure:"labels"`
}

// LogConfig configures the logrus-backed logger used across services.
type LogConfig struct {
	Formatter string     `mapstructure:"formatter"`
	Level     string     `mapstructure:"level"`
	Loki      LokiConfig `mapstructure:"loki"`
}

// RouteConfig configures a service's connection to the route broker fabric.
type RouteConfig struct {
	// Component is the short name used to build this process's net identity,
	// e.g. "echo" yields "echo#1234@hostname".
	Component string `mapstructure:"component"`
	// RouteAddrs are the router endpoints this service registers with.
	RouteAddrs []string `mapstructure:"route-addrs"`
	// HeartbeatPort is loaded from configuration but not used to derive any
	// endpoint: heartbeat sockets connect to the RouteAddrs themselves.
	HeartbeatPort int `mapstructure:"heartbeat-port"`
	// Shards is the number of consistent-hash shards serviced by this
	// component's router pool.
	Shards int `mapstructure:"shards"`
}

// LoadConfigWithDefaults loads configuration for name using viper, applying
// defaults before reading config files and environment overrides, then
// unmarshals the result into *out (out must be a pointer to a pointer to a
// config struct, e.g. &instance where instance is *Config). This mirrors
// the double-checked-locking singleton pattern used by every service's
// GetConfig().
func LoadConfigWithDefaults(name string, out interface{}, defaults map[string]interface{}) error {
	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Ptr {
		return fmt.Errorf("out must be a pointer to a pointer to a struct")
	}

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/plantd/")

	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home + "/.config/plantd")
	}

	v.SetEnvPrefix("plantd")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	configPtr := reflect.New(ptr.Elem().Type().Elem())
	if err := v.Unmarshal(configPtr.Interface()); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	ptr.Elem().Set(configPtr)

	return nil
}
