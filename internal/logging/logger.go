package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "FLUXVISION_LOG_LEVEL"

// Options controls where and how verbosely the global logger writes.
type Options struct {
	// Level is one of debug, info, warn, error. Empty falls back to
	// FLUXVISION_LOG_LEVEL, and to a silent logger when that is unset too.
	Level string

	// OutputPath is a file path or "stdout"/"stderr". The TUI passes a file
	// so log lines never land on the alternate screen.
	OutputPath string

	// JSON switches the encoder from console to JSON.
	JSON bool
}

// Initialize creates a new logger with the specified level, writing to stdout.
func Initialize(level string) error {
	return Configure(Options{Level: level})
}

// InitializeFromEnv initializes the logger from FLUXVISION_LOG_LEVEL only.
func InitializeFromEnv() error {
	return Configure(Options{})
}

// Configure replaces the global logger according to opts.
func Configure(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := opts.OutputPath
	if output == "" {
		output = "stdout"
	}

	encoding := "console"
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if opts.JSON {
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if !opts.JSON && (output == "stdout" || output == "stderr") {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Named returns a child of the global logger scoped to a component.
func Named(component string) *zap.Logger {
	return GetLogger().Named(component)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogHTTPRequest logs an outgoing or incoming HTTP request
func LogHTTPRequest(requestID, method, path, remoteAddr string) {
	Debug("HTTP request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("remote_addr", remoteAddr),
	)
}

// LogHTTPResponse logs the outcome of an HTTP exchange
func LogHTTPResponse(requestID, method, path string, statusCode int, durationMs int64) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}
	if statusCode >= 500 {
		Warn("HTTP response", fields...)
		return
	}
	Info("HTTP response", fields...)
}

// RedactToken keeps the first few characters of a secret for correlation and
// hides the rest. Tokens are never logged in full.
func RedactToken(token string) string {
	const keep = 6
	if len(token) <= keep {
		return strings.Repeat("*", len(token))
	}
	return token[:keep] + "…"
}

// TokenField is the zap field used wherever a token has to be referenced.
func TokenField(token string) zap.Field {
	return zap.Dict("token",
		zap.String("prefix", RedactToken(token)),
		zap.Int("len", len(token)),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
