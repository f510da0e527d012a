package logger

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Setup builds the process logger and installs it as the charm default,
// so packages without an injected logger still land in the same stream.
func Setup(level string, json bool) *charmlog.Logger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           parseLevel(level),
	})
	if json {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	charmlog.SetDefault(l)
	return l
}

func parseLevel(level string) charmlog.Level {
	switch level {
	case "debug":
		return charmlog.DebugLevel
	case "info":
		return charmlog.InfoLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
