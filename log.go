package thicket

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// logger is the package-wide logger. Not guarded; thicket is single-threaded.
var logger *log.Logger

func getLogger() *log.Logger {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "thicket",
			Level:           log.InfoLevel,
		})
	}
	return logger
}

// Logger returns the logger used for warnings and debug stats.
func Logger() *log.Logger {
	return getLogger()
}

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l *log.Logger) {
	logger = l
}

// setLogLevel applies a textual level such as "debug" or "warn". Unknown
// levels are reported and leave the current level in place.
func setLogLevel(level string) {
	if level == "" {
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		getLogger().Warn("unknown log level", "level", level, "err", err)
		return
	}
	getLogger().SetLevel(lvl)
}
