package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// RollbarLogger reports to rollbar and echoes everything to a standard
// logger so local output stays readable.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// emit sends msg and args to rollbar at the given level and mirrors them to
// the standard logger. A user.User among the args becomes the rollbar person
// (first one wins); it is not forwarded as a payload item. Accounts carry no
// email, so the person's email field stays blank.
func (l RollbarLogger) emit(level func(...interface{}), msg string, args []interface{}) {
	payload := make([]interface{}, 0, len(args)+1)
	payload = append(payload, msg)

	var personSet bool
	for _, arg := range args {
		usr, ok := arg.(user.User)
		if !ok {
			payload = append(payload, arg)
			continue
		}
		if !personSet {
			rollbar.SetPerson(usr.ID, usr.Username, "")
			personSet = true
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	level(payload...)

	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.emit(rollbar.Debug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.emit(rollbar.Info, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.emit(rollbar.Warning, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.emit(rollbar.Error, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.emit(rollbar.Critical, msg, args)
	l.std.Fatal(msg)
}
