// Package logging builds the application's structured logger.
package logging

import "go.uber.org/zap"

// New creates a zap logger appropriate for the environment: JSON output in
// production, console output everywhere else. Construction failures fall back
// to a no-op logger rather than blocking bootstrap.
func New(env string, debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	switch {
	case env == "production":
		logger, err = zap.NewProduction()
	case debug:
		logger, err = zap.NewDevelopment()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
