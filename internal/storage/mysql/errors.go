package mysql

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

// MySQL server error numbers the store translates into domain kinds.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errCheckViolated   = 3819
)

// classify maps driver errors onto domain kinds and wraps the rest with what.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s does not exist", what)
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry:
			return domain.WithKind(errors.Wrapf(err, "%s already exists", what), domain.ErrConflict)
		case errRowIsReferenced:
			return domain.WithKind(errors.Wrapf(err, "%s is referenced by bookings", what), domain.ErrConflict)
		case errNoReferencedRow:
			return domain.WithKind(errors.Wrapf(err, "%s references an unknown hotel", what), domain.ErrValidation)
		case errCheckViolated:
			return domain.WithKind(errors.Wrapf(err, "%s violates a check constraint", what), domain.ErrValidation)
		}
	}
	return errors.Wrap(err, what)
}
