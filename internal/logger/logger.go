package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the process logger and installs it as the zap global.
// env "production" selects the JSON production config, anything else the
// human-readable development config.
func Init(env, logLevel string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logLevel {
	case "debug":
		cfg.Level.SetLevel(zap.DebugLevel)
	case "info":
		cfg.Level.SetLevel(zap.InfoLevel)
	case "warn":
		cfg.Level.SetLevel(zap.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zap.ErrorLevel)
	default:
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("build logger: %w", err))
	}

	zap.ReplaceGlobals(lgr)
	return lgr
}
