// Package log configures the shared logrus logger used across the route
// fabric's services.
package log

import (
	"github.com/geoffjay/routefabric/core/config"
	log "github.com/sirupsen/logrus"
	"github.com/yukitsune/lokirus"
)

// Initialize configures the standard logrus logger's level, formatter, and
// Loki hook from the given LogConfig. Unrecognized levels leave the current
// level unchanged; an empty formatter defaults to text.
func Initialize(cfg config.LogConfig) {
	if cfg.Level != "" {
		if level, err := log.ParseLevel(cfg.Level); err == nil {
			log.SetLevel(level)
		}
	}

	timestampFormat := "2006-01-02 15:04:05"

	switch cfg.Formatter {
	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}

	if cfg.Loki.Address == "" {
		return
	}

	opts := lokirus.NewLokiHookOptions().
		WithLevelMap(lokirus.LevelMap{
			log.InfoLevel:  "info",
			log.WarnLevel:  "warning",
			log.ErrorLevel: "error",
			log.FatalLevel: "fatal",
		}).
		WithFormatter(&log.JSONFormatter{}).
		WithStaticLabels(lokirus.Labels(cfg.Loki.Labels))

	hook := lokirus.NewLokiHookWithOpts(
		cfg.Loki.Address,
		opts,
		log.InfoLevel,
		log.WarnLevel,
		log.ErrorLevel,
		log.FatalLevel,
	)

	log.AddHook(hook)
}
