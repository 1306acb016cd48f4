// Package logger настраивает zerolog логгер приложения.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-interview/internal/config"
)

// New создает логгер: debug..warn пишутся в out, error и выше в errOut.
// Формат "json" - JSON объект на строку, "console" - читаемая строка
func New(cfg config.LogConfig, out, errOut io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	wrap := func(w io.Writer) io.Writer { return w }
	if cfg.Format != "json" {
		wrap = func(w io.Writer) io.Writer {
			return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
	}

	writer := zerolog.MultiLevelWriter(
		SpecificLevelWriter{
			Writer: wrap(out),
			Levels: []zerolog.Level{zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel},
		},
		SpecificLevelWriter{
			Writer: wrap(errOut),
			Levels: []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		},
	)
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// SpecificLevelWriter пропускает в Writer только перечисленные уровни
type SpecificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w SpecificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
