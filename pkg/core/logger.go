package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"stale-clean/pkg/constants"
)

// LogConfig selects where and how much to log.
type LogConfig struct {
	File    string
	Level   int // 0 DEBUG, 1 INFO, 2 WARN, 3 ERROR
	MaxSize int // megabytes before rotation
	MaxAge  int // days to keep rotated files
	Console bool
}

// SetupLogger opens the rotating log file and returns a structured logger on top of it.
// The returned closer releases the log file.
func SetupLogger(cfg LogConfig) (*slog.Logger, io.Closer, error) {
	file := constants.ExpandHome(cfg.File)
	if file == "" {
		file = constants.ExpandHome(constants.LogFile)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    cfg.MaxSize,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}

	var w io.Writer = rotating
	if cfg.Console {
		w = io.MultiWriter(rotating, os.Stderr)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: LogLevel(cfg.Level)})
	return slog.New(handler), rotating, nil
}

// LogLevel maps the numeric config level onto slog levels.
func LogLevel(level int) slog.Level {
	switch level {
	case 0:
		return slog.LevelDebug
	case 2:
		return slog.LevelWarn
	case 3:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
