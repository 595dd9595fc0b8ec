// Package db opens the business database and provides the small amount of
// plumbing the query handlers share on top of gorm.
package db

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diewo77/sms-api/internal/logging"
)

// Open connects to the database described by rawURL. The driver is chosen
// from the URL scheme, see NormalizeDSN.
func Open(rawURL string) (*gorm.DB, error) {
	driver, dsn := NormalizeDSN(rawURL)
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLServer:
		dialector = sqlserver.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.NotSupportedf("database url %q", redact(rawURL))
	}
	logging.Infof("connecting to %s database", driver)
	conn, err := gorm.Open(dialector, Config())
	if err != nil {
		return nil, errors.Annotatef(err, "connecting to %s database", driver)
	}
	return conn, nil
}

// Config returns the gorm configuration shared by the server and the tests.
// QueryFields makes gorm select the mapped columns explicitly, which matters
// for the wide views the models read from.
func Config() *gorm.Config {
	return &gorm.Config{
		QueryFields: true,
		Logger: gormlogger.New(logging.Get(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Ping checks that the underlying connection pool can reach the server.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(sqlDB.PingContext(ctx))
}

// Close releases the connection pool.
func Close(conn *gorm.DB) {
	if conn == nil {
		return
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func redact(raw string) string {
	if i := strings.Index(raw, "://"); i > 0 {
		return raw[:i] + "://..."
	}
	return "..."
}
