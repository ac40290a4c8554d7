package logging

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

type zeroLogger struct {
	l zerolog.Logger
}

func newZerolog(cfg Config, w io.Writer) Logger {
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	zctx := zerolog.New(w).Level(zerologLevel(cfg.Level)).With().Timestamp()
	if cfg.AddSource {
		// One extra frame for the wrapper method.
		zctx = zctx.CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 1)
	}
	return &zeroLogger{l: zctx.Logger()}
}

func (z *zeroLogger) With(fields ...Field) Logger {
	zctx := z.l.With()
	for _, f := range fields {
		zctx = zctx.Interface(f.Key, f.Value)
	}
	return &zeroLogger{l: zctx.Logger()}
}

func (z *zeroLogger) Debug(_ context.Context, msg string, fields ...Field) {
	z.log(zerolog.DebugLevel, msg, fields)
}

func (z *zeroLogger) Info(_ context.Context, msg string, fields ...Field) {
	z.log(zerolog.InfoLevel, msg, fields)
}

func (z *zeroLogger) Warn(_ context.Context, msg string, fields ...Field) {
	z.log(zerolog.WarnLevel, msg, fields)
}

func (z *zeroLogger) Error(_ context.Context, msg string, fields ...Field) {
	z.log(zerolog.ErrorLevel, msg, fields)
}

func (z *zeroLogger) log(level zerolog.Level, msg string, fields []Field) {
	ev := z.l.WithLevel(level)
	if ev == nil {
		return
	}
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

func zerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
