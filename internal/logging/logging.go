package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cleared-dev/checkbook/internal/config"
)

var (
	infoColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
)

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New builds a slog.Logger backed by a charmbracelet/log handler writing to w.
// Unknown levels fall back to warn and unknown formats to text.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.WarnLevel
	}
	formatter, ok := formatters[cfg.Format]
	if !ok {
		formatter = log.TextFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: cfg.TimeFormat != "",
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles())

	return slog.New(logger)
}

// Setup builds the logger with New and installs it as the slog default.
func Setup(w io.Writer, cfg config.LogConfig) *slog.Logger {
	logger := New(w, cfg)
	slog.SetDefault(logger)
	return logger
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.ErrorLevel] = levelStyle("ERRO", errorColor)
	s.Levels[log.WarnLevel] = levelStyle("WARN", warnColor)
	s.Levels[log.InfoLevel] = levelStyle("INFO", infoColor)
	s.Levels[log.DebugLevel] = levelStyle("DEBU", debugColor)

	s.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	s.Values["error"] = lipgloss.NewStyle().Bold(true)
	s.Keys["batch"] = lipgloss.NewStyle().Foreground(debugColor)
	s.Keys["balance"] = lipgloss.NewStyle().Foreground(infoColor)
	s.Values["balance"] = lipgloss.NewStyle().Bold(true)
	return s
}

func levelStyle(label string, color lipgloss.AdaptiveColor) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(4).
		Foreground(color)
}
