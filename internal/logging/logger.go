// Package logging provides the structured logger used across the daemon,
// wrapping zerolog the way the rest of the pack does it.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the WithField/WithFields child-logger
// idiom the supervisor and its collaborators use to attach per-cycle and
// per-tier context.
type Logger struct {
	logger zerolog.Logger
}

// Config selects level, format, and destination for New.
type Config struct {
	Level  string // debug | info | warn | error
	Format string // text | json
	Output io.Writer
}

// New builds a Logger. An unrecognized or empty Level defaults to info; an
// unrecognized or empty Format defaults to json, matching the on-disk
// daemon log the systemd unit expects to hand to journald.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var output io.Writer = cfg.Output
	if cfg.Format == "text" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
	return &Logger{logger: zlog}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.logger.Error().Msg(msg) }

// ErrorErr logs msg with err attached as the "error" field, the idiomatic
// zerolog way to report a wrapped error at the boundary that handles it.
func (l *Logger) ErrorErr(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// WithField returns a child Logger with one additional structured field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a child Logger with several additional structured
// fields attached at once.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// Zerolog returns the underlying zerolog.Logger for callers that want to
// pass a plain zerolog.Logger into a third-party constructor.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}
