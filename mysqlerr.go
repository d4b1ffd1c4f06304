package namedbind

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const mysqlErrDupEntry = 1062

// IsDuplicateEntry reports whether err wraps a MySQL duplicate key error (1062).
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDupEntry
}
