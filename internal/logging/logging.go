// Package logging builds the zap logger shared by every forge component.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileLogger bundles a logger with the file it writes to
type FileLogger struct {
	Logger  *zap.Logger
	Path    string
	Enabled bool
}

// Close flushes buffered entries
func (f FileLogger) Close() error {
	if !f.Enabled || f.Logger == nil {
		return nil
	}
	return f.Logger.Sync()
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}

// New returns a JSON file logger under <dataDir>/logs when debug is set and a
// no-op logger otherwise. The TUI owns the terminal, so logs never go to
// stdout or stderr.
func New(dataDir string, debug bool) (FileLogger, error) {
	if !debug {
		return FileLogger{Logger: Nop()}, nil
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return FileLogger{Logger: Nop()}, err
	}
	path := filepath.Join(logDir, "forge.log")

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return FileLogger{Logger: Nop()}, err
	}
	return FileLogger{
		Logger:  logger.Named("forge"),
		Path:    path,
		Enabled: true,
	}, nil
}
