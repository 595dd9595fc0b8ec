package db

import (
	"bytes"
	"database/sql"
	"encoding/json"

	"github.com/juju/errors"
	"gorm.io/gorm"
)

// Column is one named value of a result row.
type Column struct {
	Name  string
	Value any
}

// Row is a result row that keeps the column order of the statement. It
// marshals to a JSON object whose keys appear in that order.
type Row []Column

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Value)
		if err != nil {
			return nil, errors.Annotatef(err, "column %s", c.Name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScanRows reads every remaining row of rows. Byte slices are converted to
// strings so text columns marshal as JSON strings. rows is not closed.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Trace(err)
		}
		row := make(Row, len(cols))
		for i, name := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = Column{Name: name, Value: v}
		}
		out = append(out, row)
	}
	return out, errors.Trace(rows.Err())
}

// FindRows executes q and returns its rows in column order. q may be a
// query built with the gorm chain API or a Raw statement.
func FindRows(q *gorm.DB) ([]Row, error) {
	rows, err := q.Rows()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	return ScanRows(rows)
}
