package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-nest/framework/config"
	"github.com/km-arc/go-nest/framework/container"
	"github.com/km-arc/go-nest/framework/logging"
)

// TokenLogger is the shared application logger value.
const TokenLogger container.Token = "LOGGER"

// nest:provider
//
// LoggerProvider builds the application-wide zap logger from the app config.
// It is a value provider: the container binds its Provide result under
// TokenLogger, so every component injecting TokenLogger shares the exact
// same *zap.Logger.
type LoggerProvider struct {
	cfg *config.App
}

// Provide is the value factory.
func (p *LoggerProvider) Provide() (*zap.Logger, error) {
	return logging.New(p.cfg.Env, p.cfg.Debug), nil
}

func loggerDescriptor() *container.Descriptor {
	return &container.Descriptor{
		Token:        "providers.logger",
		Name:         "LoggerProvider",
		Provides:     TokenLogger,
		Dependencies: []container.Token{config.TokenApp},
		Construct: func(deps []any) (any, error) {
			return &LoggerProvider{cfg: deps[0].(*config.App)}, nil
		},
		Produce: func(instance any) (any, error) {
			return instance.(*LoggerProvider).Provide()
		},
	}
}
