package history

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Driver names registered by lib/pq and modernc.org/sqlite.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ParseDSN picks a driver from the DSN scheme. postgres:// and postgresql://
// go to lib/pq; anything else is a SQLite file, with an optional sqlite:// prefix.
func ParseDSN(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", "", errors.New("empty history DSN")
	}
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(lower, "sqlite://"):
		source = dsn[len("sqlite://"):]
		if source == "" {
			return "", "", errors.Errorf("history DSN %q has no file path", dsn)
		}
		return DriverSQLite, source, nil
	}
	return DriverSQLite, dsn, nil
}

func OpenDB(dsn string) (*sql.DB, string, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", errors.Wrap(err, "sql.Open")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", errors.Wrap(err, "db.Ping")
	}

	if driver == DriverSQLite {
		// One CLI process, one writer.
		db.SetMaxOpenConns(1)
	}
	return db, driver, nil
}
