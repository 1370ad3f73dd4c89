package cmd

import (
	"fmt"

	"github.com/libstack/go-sip2/config"
	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/store"
)

// openStore builds the KV backend selected by the configuration.
func openStore(settings *config.Settings) (store.KV, error) {
	switch settings.Datastore.Backend {
	case config.BackendRedis:
		return store.NewRedisStore(settings.Datastore.RedisURL)
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown datastore backend %q", settings.Datastore.Backend)
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(settings *config.Settings) logger.Logger {
	level := logger.InfoLevel
	switch settings.LogLevel {
	case "debug":
		level = logger.DebugLevel
	case "warn":
		level = logger.WarnLevel
	case "error":
		level = logger.ErrorLevel
	}

	return logger.NewSlog(level)
}
