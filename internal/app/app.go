package app

import (
    "log/slog"
    "time"

    "gamevault/internal/messages"
    "gamevault/pkg/logattr"

    "github.com/walletera/werrors"
    "go.uber.org/zap"
    "go.uber.org/zap/exp/zapslog"
    "go.uber.org/zap/zapcore"
)

// DefaultLogHandler builds the production slog handler every service
// uses unless the caller injects its own (tests do).
func DefaultLogHandler() (slog.Handler, error) {
    zapLogger, err := newZapLogger()
    if err != nil {
        return nil, err
    }
    return zapslog.NewHandler(zapLogger.Core()), nil
}

func newZapLogger() (*zap.Logger, error) {
    encoderConfig := zap.NewProductionEncoderConfig()
    encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
    zapConfig := zap.Config{
        Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
        Development:       false,
        DisableStacktrace: true,
        Sampling: &zap.SamplingConfig{
            Initial:    100,
            Thereafter: 100,
        },
        Encoding:         "json",
        EncoderConfig:    encoderConfig,
        OutputPaths:      []string{"stderr"},
        ErrorOutputPaths: []string{"stderr"},
    }
    return zapConfig.Build()
}

// ProcessingErrorCallback logs every message the dispatch loop could
// not process, with the broker coordinates needed to find it again.
func ProcessingErrorCallback(logger *slog.Logger) messages.ProcessorOpt {
    return messages.WithErrorCallback(func(msg messages.Message, processingError werrors.WError) {
        logger.Error(
            "failed processing message",
            logattr.Topic(msg.Topic()),
            logattr.Partition(msg.Partition()),
            logattr.Offset(msg.Offset()),
            logattr.Error(processingError.Message()),
        )
    })
}
