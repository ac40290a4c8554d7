package logging

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

func output(cfg Config) io.Writer {
	if cfg.Writer != nil {
		return cfg.Writer
	}
	if cfg.File == "" || cfg.File == "-" {
		return os.Stdout
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	if lj.MaxSize <= 0 {
		lj.MaxSize = defaultMaxSizeMB
	}
	if lj.MaxBackups <= 0 {
		lj.MaxBackups = defaultMaxBackups
	}
	if lj.MaxAge <= 0 {
		lj.MaxAge = defaultMaxAgeDays
	}
	return lj
}
