package utils

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SetupSlogLogger configures the default slog logger from cfg. When logging
// goes to a file the opened file is returned so the caller can close it.
func SetupSlogLogger(cfg LoggingConfig) (*os.File, error) {
	level := strings.ToLower(cfg.Level)
	format := strings.ToLower(cfg.Format)
	output := strings.ToLower(cfg.Output)
	logFile := cfg.File

	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "json"
	}
	if output == "" {
		output = "stdout"
	}
	if logFile == "" {
		logFile = "./logs/satexam.log"
	}

	var writer io.Writer
	var file *os.File
	var err error

	switch output {
	case "file", "both":
		file, err = openLogFile(logFile)
		if err != nil {
			return nil, err
		}
		writer = file
		if output == "both" {
			writer = io.MultiWriter(os.Stdout, file)
		}
	default:
		writer = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))

	// Route the standard log package through the same writer.
	if output != "stdout" {
		log.SetOutput(writer)
	}
	log.SetFlags(0)

	slog.Info("Logging configured",
		"level", level,
		"format", format,
		"output", output,
		"file", logFile)

	return file, nil
}

func parseLevel(level string) slog.Level {
	switch level {
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

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
