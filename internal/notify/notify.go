// Package notify delivers plain-text digests to an operator.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier sends a message somewhere a human will read it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Log writes messages to the application log.
type Log struct {
	log logrus.FieldLogger
}

func NewLog(log logrus.FieldLogger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, text string) error {
	l.log.WithField("notifier", "log").Info(text)
	return nil
}
