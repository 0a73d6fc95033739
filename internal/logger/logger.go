package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared zap logger. mode "prod" switches to the JSON
// production config; anything else gets the console development config.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
