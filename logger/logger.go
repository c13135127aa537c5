package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	projectLogger *logrus.Logger
	loggerOnce    sync.Once
)

func base() *logrus.Logger {
	loggerOnce.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		projectLogger.SetLevel(logrus.InfoLevel)
	})
	return projectLogger
}

// GetProjectLogger returns the logger shared by every package in the project.
func GetProjectLogger() *logrus.Entry {
	return logrus.NewEntry(base()).WithField("name", "tempo")
}

// SetOutput redirects the project logger, e.g. to a file while the console owns the terminal.
func SetOutput(w io.Writer) {
	base().SetOutput(w)
}

// SetLevel parses and applies a log level such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base().SetLevel(lvl)
	return nil
}
