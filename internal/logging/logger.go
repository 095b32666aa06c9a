// Package logging builds the *zap.Logger used by cmd/gdl and
// internal/parallel. pkg/gdl takes no logging dependency of its own; callers
// pass a *zap.Logger in where one is needed.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/gdlogic/internal/config"
)

// New builds a *zap.Logger from a resolved LogConfig. Format "json" uses
// zap's production encoder; "console" uses the development encoder, which
// is easier to read at a terminal.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	switch cfg.Format {
	case "json", "":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewSession returns a child logger tagged with a fresh session_id field.
// cmd/gdl uses it for the debug line it logs when a StateMachine is loaded;
// the subcommands' other log lines go through the base logger and carry no
// session_id.
func NewSession(base *zap.Logger) *zap.Logger {
	return base.With(zap.String("session_id", uuid.NewString()))
}
