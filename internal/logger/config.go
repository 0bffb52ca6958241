package logger

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config selects the level, format and destination of the log.
type Config struct {
	Level     string
	Format    string
	File      string
	AddSource bool
}

// Validate checks the level and format names.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("json", "text")),
	)
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
