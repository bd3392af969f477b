package infra

import (
	"os"

	"github.com/sirupsen/logrus"

	"astrocrm/internal/config"
)

// NewLogger builds the application logger and applies the same settings to the logrus standard logger.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetLevel(log.GetLevel())
	logrus.SetFormatter(log.Formatter)
	logrus.SetOutput(log.Out)

	return log
}
