// Package logging bridges ectologger onto a zap backend.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
)

// New builds the application logger. The returned flush function drains
// buffered entries and should run on shutdown.
func New(appName string, pretty bool) (ectologger.Logger, func(), error) {
	zcfg := zap.NewProductionConfig()
	if pretty {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.DisableCaller = true
	zcfg.DisableStacktrace = true

	zlog, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	sink := zlog.Named(appName)
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		sink.Info("log", zap.Any("entry", msg))
	})

	flush := func() {
		_ = zlog.Sync()
	}

	return logger, flush, nil
}
