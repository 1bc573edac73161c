package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New is the server logger: JSON on stdout, level from LOG_LEVEL (default info).
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(levelFromEnv(logrus.InfoLevel))
	return l
}

// NewCLI writes plain text to w. Logs are opt-in: verbose forces debug,
// otherwise LOG_LEVEL applies and nothing below fatal is shown by default.
func NewCLI(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(levelFromEnv(logrus.FatalLevel))
	}
	return l
}

func levelFromEnv(fallback logrus.Level) logrus.Level {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	switch level {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return fallback
	}
}
