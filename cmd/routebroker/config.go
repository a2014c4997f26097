package main

import (
	"sync"

	cfg "github.com/geoffjay/routefabric/core/config"

	log "github.com/sirupsen/logrus"
)

// Config is the routebroker process's configuration.
type Config struct {
	cfg.Config

	Env          string            `mapstructure:"env"`
	AdminAddr    string            `mapstructure:"admin-addr"`
	Log          cfg.LogConfig     `mapstructure:"log"`
	Service      cfg.ServiceConfig `mapstructure:"service"`
	RouteFabric  cfg.RouteConfig   `mapstructure:"route"`
}

var lock = &sync.Mutex{}
var instance *Config

var defaults = map[string]interface{}{
	"env":                   "development",
	"admin-addr":            ":9799",
	"log.formatter":         "text",
	"log.level":             "info",
	"log.loki.address":      "http://localhost:3100",
	"log.loki.labels":       map[string]string{"app": "routebroker", "environment": "development"},
	"service.id":            "org.plantd.RouteBroker",
	"route.component":       "broker",
	"route.route-addrs":     []string{"tcp://127.0.0.1:9797"},
	"route.heartbeat-port":  9798,
	"route.shards":          4,
}

// GetConfig returns the routebroker configuration singleton.
func GetConfig() *Config {
	if instance == nil {
		lock.Lock()
		defer lock.Unlock()
		if instance == nil {
			if err := cfg.LoadConfigWithDefaults("routebroker", &instance, defaults); err != nil {
				log.Fatalf("error reading config file: %s\n", err)
			}
		}
	}

	log.Tracef("config: %+v", instance)

	return instance
}
