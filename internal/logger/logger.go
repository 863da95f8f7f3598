package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// log до вызова Init указывает на slog.Default()
var log = slog.Default()

// Init инициализирует глобальный логгер.
// env "development" - текстовый вывод, иначе JSON; level - debug/info/warn/error.
func Init(env, level string) {
	InitWithWriter(os.Stdout, env, level)
}

func InitWithWriter(w io.Writer, env, level string) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if env == "development" || env == "local" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func GetLogger() *slog.Logger {
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает процесс
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With: logger.With("vacancy_id", id).Info("vacancy published")
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}

// HTTPLog логирует завершенный HTTP запрос
func HTTPLog(method, route string, status int, duration time.Duration, size int, requestID string) {
	fields := []any{
		"method", method,
		"route", route,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	}
	if requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	switch {
	case status >= 500:
		GetLogger().Error("http request", fields...)
	case status >= 400:
		GetLogger().Warn("http request", fields...)
	default:
		GetLogger().Info("http request", fields...)
	}
}

// DBLog логирует SQL; медленные запросы поднимаются до WARN
func DBLog(query string, rows int64, duration time.Duration, slow bool, err error) {
	fields := []any{
		"query", query,
		"rows", rows,
		"duration_ms", duration.Milliseconds(),
	}

	switch {
	case err != nil:
		fields = append(fields, "error", err.Error())
		GetLogger().Error("database operation failed", fields...)
	case slow:
		GetLogger().Warn("slow database operation", fields...)
	default:
		GetLogger().Debug("database operation", fields...)
	}
}

func WorkerLog(worker, operation string, err error, args ...any) {
	fields := append([]any{"worker", worker, "operation", operation}, args...)

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
	} else {
		GetLogger().Info("worker operation completed", fields...)
	}
}
