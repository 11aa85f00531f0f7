package repos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	applog "notesweb/internal/log"
	"notesweb/internal/repos/migrations"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OpenDB connects with the named driver and verifies the connection.
// It does not touch the schema; call Migrate for that.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One connection keeps :memory: databases alive and serialises writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN asks the driver to enable foreign keys on every connection it opens.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

var gooseMu sync.Mutex

func gooseSetup(db *sqlx.DB) (string, error) {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	switch db.DriverName() {
	case DriverSQLite:
		return "sqlite", goose.SetDialect("sqlite3")
	case DriverPostgres:
		return "postgres", goose.SetDialect("postgres")
	}
	return "", fmt.Errorf("no migrations for driver %q", db.DriverName())
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	dir, err := gooseSetup(db)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every embedded migration.
func MigrationStatus(ctx context.Context, db *sqlx.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	dir, err := gooseSetup(db)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db.DB, dir)
}

// Ping is used by the health check.
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	applog.Logger().Info("db.migrate", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	applog.Logger().Error("db.migrate", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// isUniqueViolation recognises duplicate key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w", err)
}
