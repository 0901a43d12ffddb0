// Package logger configures the process-wide slog default from AppConfig and
// exposes thin level helpers so call sites stay one import lighter.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"catalog-crawler-go/internal/config"
)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// InitFromConfig installs the default logger. JSON output unless LOG_FORMAT
// asks for text; unknown levels fall back to info.
func InitFromConfig() {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(config.AppConfig.LogLevel))]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(config.AppConfig.LogFormat), "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
