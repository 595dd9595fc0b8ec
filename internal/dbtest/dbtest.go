// Package dbtest opens in-memory SQLite databases shaped like the business
// schema for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/db"
)

// Open returns a private in-memory database with the schema migrated. Its
// pool holds one connection so transactions and reads never contend.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), db.Config())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// FailInserts makes every insert into table abort with a store error.
func FailInserts(t testing.TB, conn *gorm.DB, table string) {
	t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER fail_%[1]s BEFORE INSERT ON %[1]s
BEGIN SELECT RAISE(ABORT, 'insert into %[1]s rejected'); END`, table)
	require.NoError(t, conn.Exec(stmt).Error)
}

// Count returns the number of rows of table.
func Count(t testing.TB, conn *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Table(table).Count(&n).Error)
	return n
}
