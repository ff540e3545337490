package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures rotating file output
type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// AddFileOutput tees logger output into a rotating log file. An empty path
// leaves the logger unchanged. The returned closer releases the file.
func AddFileOutput(logger *logrus.Logger, cfg FileConfig) (io.Closer, error) {
	if cfg.Path == "" {
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	// Color codes would end up in the file
	if text, ok := logger.Formatter.(*logrus.TextFormatter); ok {
		text.ForceColors = false
		text.DisableColors = true
	}

	logger.SetOutput(io.MultiWriter(logger.Out, fileWriter))
	return fileWriter, nil
}
