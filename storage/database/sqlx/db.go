package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// isUniqueViolation reports whether err is a psql unique constraint error.
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}

// wrapDBErr wraps repository failures. A dead connection becomes a shutdown
// error so the API's error handler can request a graceful stop.
func wrapDBErr(err error, msg string) error {
	if err == sql.ErrConnDone {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}
