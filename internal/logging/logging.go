// Package logging configures the application logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"smart-tasks/internal/config"
)

// New returns a logger writing to out. Local runs get human-readable text,
// everything else JSON.
func New(env, level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	switch env {
	case config.EnvLocal:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.DateTime,
		})
	default:
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
			},
		})
	}
	return log, nil
}
