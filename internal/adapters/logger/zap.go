package logger

import (
	"fmt"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"
	"go.uber.org/zap/zapcore"
)

// NewAppLogger builds the zap-backed logger at level, named appName.
// Entries go to stderr so stdout stays free for locations and annotated views.
func NewAppLogger(level, appName string) (*logger.ZapLogger, error) {
	cfg := logger.ConfigureLogLevelLogger(level)
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.NewZapLogger(z.Named(appName).Sugar()), nil
}
