package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
)

func itoa(n int) string { return strconv.Itoa(n) }

// wrapDBErr annotates a storage error. Dead-connection failures are upgraded
// to a shutdown error so the server stops serving instead of failing every
// request against a gone database.
func wrapDBErr(err error, msg string) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

// orderBy renders an ORDER BY clause, falling back to the given default.
func orderBy(ordering []core.DBOrdering, def string) string {
	if len(ordering) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
