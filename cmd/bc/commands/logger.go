package commands

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// zapLogger adapts a zap logger to bc.Logger.
type zapLogger struct {
	logger *zap.Logger
}

var (
	logOutput = "stderr"

	openLoggersMu sync.Mutex
	openLoggers   []*zap.Logger
)

// newCLILogger returns a development logger on stderr when verbose, a no-op one otherwise.
// Verbose loggers are flushed by SyncLoggers.
func newCLILogger(verbose bool) bc.Logger {
	if !verbose {
		return &zapLogger{logger: zap.NewNop()}
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.OutputPaths = []string{logOutput}

	logger, err := config.Build()
	if err != nil {
		return &zapLogger{logger: zap.NewNop()}
	}

	openLoggersMu.Lock()
	openLoggers = append(openLoggers, logger)
	openLoggersMu.Unlock()

	return &zapLogger{logger: logger}
}

// SyncLoggers flushes the loggers built by commands. Run it once the root
// command returns.
func SyncLoggers() {
	openLoggersMu.Lock()
	defer openLoggersMu.Unlock()

	for _, logger := range openLoggers {
		// stderr returns EINVAL or ENOTTY on sync when it is a terminal
		_ = logger.Sync()
	}

	openLoggers = nil
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, zapFields(fields)...)
}

func zapFields(fields map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		out = append(out, zap.Any(key, value))
	}

	return out
}
