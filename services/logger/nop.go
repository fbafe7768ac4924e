package logsvc

import "github.com/trezcool/shule/core"

type nopLogger struct{}

var _ core.Logger = (*nopLogger)(nil)

// NewNopLogger discards everything; for tests.
func NewNopLogger() core.Logger {
	return nopLogger{}
}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
