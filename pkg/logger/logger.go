package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/killallgit/entropy/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger provides a unified logging interface
type Logger struct {
	level LogLevel
	sugar *zap.SugaredLogger
	file  *os.File
}

var (
	defaultLogger *Logger
	mirrorStderr  bool
	nop           = zap.NewNop().Sugar()
)

// Init initializes the default logger from the global config
func Init() error {
	if defaultLogger != nil {
		return nil
	}

	if !config.IsLoaded() {
		return fmt.Errorf("failed to initialize logger: config not loaded")
	}
	settings := config.Get()
	l, err := New(ParseLevel(settings.Logging.Level), settings.Logging.LogFile, settings.Logging.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defaultLogger = l
	return nil
}

// New creates a Logger writing to logFile. When preserve is false the file is truncated.
func New(level LogLevel, logFile string, preserve bool) (*Logger, error) {
	logPath := logFile
	if logPath == "" {
		logPath = "system.log"
	}
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(filepath.Base(logPath))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !preserve {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(level, file)
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(level LogLevel, w io.Writer) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level.zapLevel()),
	)

	// Errors also go to stderr, but only where the terminal isn't owned by the TUI
	stderrCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return mirrorStderr && lvl >= zapcore.ErrorLevel
		}),
	)

	return &Logger{
		level: level,
		sugar: zap.New(zapcore.NewTee(core, stderrCore)).Sugar(),
	}
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ParseLevel converts a string level to LogLevel
func ParseLevel(levelStr string) LogLevel {
	switch levelStr {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.Debug(format, args...)
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.Warn(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.Error(format, args...)
}

// SetDefault replaces the default logger (useful for testing). Passing nil disables logging.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// MirrorErrorsToStderr toggles copying error records to stderr.
// Headless mode turns it on; the TUI leaves it off.
func MirrorErrorsToStderr(enabled bool) {
	mirrorStderr = enabled
}

// Close closes the default logger
func Close() error {
	if defaultLogger == nil {
		return nil
	}
	err := defaultLogger.Close()
	defaultLogger = nil
	return err
}

// ComponentLogger tags every record with a component name and takes key/value pairs
type ComponentLogger struct {
	name string
}

// WithComponent returns a logger scoped to a component
func WithComponent(name string) *ComponentLogger {
	return &ComponentLogger{name: name}
}

func (c *ComponentLogger) sugar() *zap.SugaredLogger {
	if defaultLogger == nil {
		return nop
	}
	return defaultLogger.sugar.With("component", c.name)
}

func (c *ComponentLogger) Debug(msg string, keysAndValues ...interface{}) {
	c.sugar().Debugw(msg, keysAndValues...)
}

func (c *ComponentLogger) Info(msg string, keysAndValues ...interface{}) {
	c.sugar().Infow(msg, keysAndValues...)
}

func (c *ComponentLogger) Warn(msg string, keysAndValues ...interface{}) {
	c.sugar().Warnw(msg, keysAndValues...)
}

func (c *ComponentLogger) Error(msg string, keysAndValues ...interface{}) {
	c.sugar().Errorw(msg, keysAndValues...)
}
