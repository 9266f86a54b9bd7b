// Package logger provides component-scoped structured logging, JSON to
// stdout.
package logger

import (
	"log/slog"
	"os"
)

var (
	level = new(slog.LevelVar)
	log   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
)

// SetDebug enables debug-level output.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

func DebugC(component, msg string) {
	log.Debug(msg, "component", component)
}

func DebugCF(component, msg string, fields map[string]any) {
	log.Debug(msg, attrs(component, fields)...)
}

func InfoC(component, msg string) {
	log.Info(msg, "component", component)
}

func InfoCF(component, msg string, fields map[string]any) {
	log.Info(msg, attrs(component, fields)...)
}

func WarnC(component, msg string) {
	log.Warn(msg, "component", component)
}

func WarnCF(component, msg string, fields map[string]any) {
	log.Warn(msg, attrs(component, fields)...)
}

func ErrorC(component, msg string) {
	log.Error(msg, "component", component)
}

func ErrorCF(component, msg string, fields map[string]any) {
	log.Error(msg, attrs(component, fields)...)
}

func attrs(component string, fields map[string]any) []any {
	out := make([]any, 0, 2+2*len(fields))
	out = append(out, "component", component)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
