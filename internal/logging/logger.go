// Package logging adapts zap to the Nakama runtime.Logger interface so code
// written against runtime.Logger also runs outside the Nakama server.
package logging

import (
	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
)

// RuntimeLogger is a runtime.Logger backed by a zap.SugaredLogger.
type RuntimeLogger struct {
	log    *zap.SugaredLogger
	fields map[string]interface{}
}

var _ runtime.Logger = (*RuntimeLogger)(nil)

// NewRuntimeLogger wraps l. A nil logger discards everything.
func NewRuntimeLogger(l *zap.Logger) *RuntimeLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &RuntimeLogger{log: l.Sugar(), fields: map[string]interface{}{}}
}

// New builds a zap logger for command line tools: development output when
// debug is set, JSON production output otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (l *RuntimeLogger) Debug(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

func (l *RuntimeLogger) Info(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l *RuntimeLogger) Warn(format string, v ...interface{}) {
	l.log.Warnf(format, v...)
}

func (l *RuntimeLogger) Error(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

func (l *RuntimeLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *RuntimeLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &RuntimeLogger{log: l.log.With(args...), fields: merged}
}

func (l *RuntimeLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}
