package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the database/sql driver opened for DriverSQLite. It is
// go-sqlite3 with SQL functions registered on every new connection.
const sqliteDriverName = "sqlite3_invoices"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The built-in LOWER only folds ASCII; searches compare against
			// strings.ToLower on the Go side.
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower lowercases TEXT values and passes NULL and other types through
func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// sqlDriverName maps a configured driver to the registered database/sql name
func sqlDriverName(driver string) string {
	if driver == DriverSQLite {
		return sqliteDriverName
	}
	return driver
}
