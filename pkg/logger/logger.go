package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func InitLogger() {
	Log = logrus.New()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	Log.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		Log.SetLevel(lvl)
	}

	// Keep the package-level logrus logger in sync so other packages can
	// log through logrus directly.
	logrus.SetOutput(Log.Out)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(Log.GetLevel())
}
