package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// NewLogger builds the process logger. format is "json" or "console".
func NewLogger(level, format string) (*Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json", "":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = atomicLevel

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zl}, nil
}

func New(zl *zap.Logger) *Logger {
	return &Logger{Logger: zl}
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) ConnectAttempt(opID, uri, username string) {
	l.Info("connecting to graph database",
		zap.String("type", "connection"),
		zap.String("op", opID),
		zap.String("uri", uri),
		zap.String("username", username),
	)
}

func (l *Logger) ConnectSucceeded(opID, uri string, labelCount int) {
	l.Info("connected to graph database",
		zap.String("type", "connection"),
		zap.String("op", opID),
		zap.String("uri", uri),
		zap.Int("labels", labelCount),
	)
}

func (l *Logger) ConnectFailed(opID, uri string, err error) {
	l.Error("connection failed",
		zap.String("type", "connection"),
		zap.String("op", opID),
		zap.String("uri", uri),
		zap.Error(err),
	)
}

func (l *Logger) MutationSucceeded(opID, kind string) {
	l.Info("mutation applied",
		zap.String("type", "mutation"),
		zap.String("op", opID),
		zap.String("kind", kind),
	)
}

func (l *Logger) MutationFailed(opID, kind string, err error) {
	l.Error("mutation failed",
		zap.String("type", "mutation"),
		zap.String("op", opID),
		zap.String("kind", kind),
		zap.Error(err),
	)
}
