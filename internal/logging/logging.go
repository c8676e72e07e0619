package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

const (

	// Level of configuration access tracing, two steps below debug.
	LevelTrace = slog.LevelDebug - 2

	// Lowest level a verbosity can reach.
	minLevel = slog.LevelDebug - 8
)

// Maps a -v count to a log level.
func LevelFor(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	}
	level := slog.LevelDebug - slog.Level(verbosity-2)
	return max(level, minLevel)
}

// Installs the default logger writing to w at the level for verbosity.
//
// When color is false the output carries no ANSI sequences. Returns the
// installed logger.
func Init(w io.Writer, verbosity int, color bool) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level: log.Level(LevelFor(verbosity)),
	})
	handler.SetStyles(styles())
	if !color {
		handler.SetColorProfile(termenv.Ascii)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	logger.Log(context.Background(), LevelTrace, "logger configured", "verbosity", verbosity)
	return logger
}

// Returns level prefixes in place of the default level names.
func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels = map[log.Level]lipgloss.Style{
		log.FatalLevel: prefix("!!!", "9"),
		log.ErrorLevel: prefix("!", "9"),
		log.WarnLevel:  prefix(">", "11"),
		log.InfoLevel:  prefix("-", "12"),
	}
	for l := slog.LevelDebug; l >= minLevel; l-- {
		s.Levels[log.Level(l)] = prefix(dashes(l), "8")
	}
	return s
}

// Returns "--" for debug and one extra dash per level below it.
func dashes(l slog.Level) string {
	return "--" + strings.Repeat("-", int(slog.LevelDebug-l))
}

func prefix(s, color string) lipgloss.Style {
	return lipgloss.NewStyle().SetString(s).Bold(true).Foreground(lipgloss.Color(color))
}
