package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared zap logger: JSON output in prod, console
// output otherwise.
func New(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}
