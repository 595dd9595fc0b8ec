package db

import (
	"net/url"
	"regexp"
	"strings"
)

// Driver names understood by Open.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts the connection string forms found in deployment
// environments and returns the driver to use with a DSN that driver accepts.
//
//   - sqlserver://... is returned unchanged.
//   - mssql://, mssql+pyodbc:// and mssql+pymssql:// URLs are rewritten to
//     sqlserver:// with the path moved into the database query parameter.
//   - postgres:// URLs and lib/pq key=value lists select postgres.
//   - sqlite:, file: and *.db select sqlite.
//
// Surrounding quotes and whitespace are trimmed. An unrecognised string is
// returned with an empty driver.
func NormalizeDSN(raw string) (driver, dsn string) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return "", ""
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "sqlserver://"):
		return DriverSQLServer, s
	case strings.HasPrefix(lower, "mssql"):
		return DriverSQLServer, mssqlToSQLServer(s)
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, s
	case strings.HasPrefix(lower, "sqlite://"):
		return DriverSQLite, s[len("sqlite://"):]
	case strings.HasPrefix(lower, "sqlite:"):
		return DriverSQLite, s[len("sqlite:"):]
	case strings.HasPrefix(lower, "file:"), strings.HasSuffix(lower, ".db"):
		return DriverSQLite, s
	case kvPairRegex.MatchString(s):
		cleaned := strings.Join(strings.Fields(s), " ")
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return DriverPostgres, cleaned
	}
	return "", s
}

// mssqlToSQLServer converts an SQLAlchemy style mssql URL into the form the
// go-mssqldb driver expects. ODBC-only parameters are dropped.
func mssqlToSQLServer(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	q := u.Query()
	q.Del("driver")
	q.Del("TrustServerCertificate")
	if name := strings.Trim(u.Path, "/"); name != "" && q.Get("database") == "" {
		q.Set("database", name)
	}
	out := &url.URL{
		Scheme:   "sqlserver",
		User:     u.User,
		Host:     u.Host,
		RawQuery: q.Encode(),
	}
	return out.String()
}
