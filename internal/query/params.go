package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/diewo77/sms-api/internal/models"
	"github.com/diewo77/sms-api/validation"
)

// Params is the free-form parameter bag of a query request. Values are the
// JSON decoded forms: string, json.Number or float64, bool, nil.
type Params map[string]any

// LegacyFields are the flat request fields copied into the bag by Merge.
var LegacyFields = []string{
	"name", "limit", "customerName", "branch", "status",
	"customerId", "assetTypeId", "assetType",
	"vesselName", "country", "interCo", "blocked", "assetDeleted",
	"assetId", "createdBy", "relationshipId", "notes",
	"meetingId", "meetingDate", "description", "position",
	"employeeId", "keyTopic", "specOp", "contactId",
}

// Merge returns a new bag holding params plus every non-null legacy field
// whose key is absent from params. The bag wins on conflict, even when it
// holds an explicit null.
func Merge(params, legacy Params) Params {
	out := make(Params, len(params)+len(legacy))
	for k, v := range params {
		out[k] = v
	}
	for _, k := range LegacyFields {
		v, ok := legacy[k]
		if !ok || v == nil {
			continue
		}
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// reader reads typed values out of a bag and collects every problem as a
// validation violation, so a handler reports all of them at once.
type reader struct {
	p Params
	v validation.Violations
}

func newReader(p Params) *reader {
	return &reader{p: p, v: make(validation.Violations)}
}

func (r *reader) err() error { return r.v.Err() }

// str returns the string at key, "" when absent or null. Numbers are
// accepted and formatted.
func (r *reader) str(key string) string {
	switch val := r.p[key].(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		r.v[key] = validation.CodeInvalid
		return ""
	}
}

func (r *reader) requireStr(key string) string {
	s := r.str(key)
	if _, bad := r.v[key]; !bad {
		validation.Required(key, s, r.v)
	}
	return s
}

// optStr returns nil when key is absent or blank.
func (r *reader) optStr(key string) *string {
	s := r.str(key)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// nullStr returns nil only when key is absent or null. Blank strings are
// kept.
func (r *reader) nullStr(key string) *string {
	if r.p[key] == nil {
		return nil
	}
	s := r.str(key)
	return &s
}

// int returns the integer at key and whether one was given. JSON numbers
// and numeric strings are accepted; anything else is a violation.
func (r *reader) int(key string) (int64, bool) {
	n, ok, err := toInt(r.p[key])
	if err != nil {
		validation.Invalid(key, r.v)
		return 0, false
	}
	return n, ok
}

// requireInt treats zero like a missing value.
func (r *reader) requireInt(key string) int64 {
	n, ok := r.int(key)
	if _, bad := r.v[key]; !bad {
		validation.Present(key, ok && n != 0, r.v)
	}
	return n
}

func (r *reader) optInt(key string) *int64 {
	if n, ok := r.int(key); ok {
		return &n
	}
	return nil
}

// limit returns the positive limit at key or def when absent.
func (r *reader) limit(def int) int {
	n, ok := r.int("limit")
	if !ok {
		return def
	}
	validation.Positive("limit", n, r.v)
	return int(n)
}

func (r *reader) bool(key string) *bool {
	b, ok, err := toBool(r.p[key])
	if err != nil {
		validation.Invalid(key, r.v)
		return nil
	}
	if !ok {
		return nil
	}
	return &b
}

func (r *reader) requireDate(key string) models.Date {
	s := r.requireStr(key)
	if _, bad := r.v[key]; bad {
		return models.Date{}
	}
	d, err := models.ParseDate(s)
	if err != nil {
		validation.Invalid(key, r.v)
	}
	return d
}

func toInt(val any) (int64, bool, error) {
	switch n := val.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false, err
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case int:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false, err
		}
		return i, true, nil
	}
	return 0, false, fmt.Errorf("not a number: %T", val)
}

func floatToInt(f float64) (int64, bool, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false, fmt.Errorf("not an integer: %v", f)
	}
	return int64(f), true, nil
}

func toBool(val any) (bool, bool, error) {
	switch b := val.(type) {
	case nil:
		return false, false, nil
	case bool:
		return b, true, nil
	case json.Number, float64, int, int64:
		n, ok, err := toInt(b)
		return n != 0, ok, err
	case string:
		s := strings.TrimSpace(b)
		if s == "" {
			return false, false, nil
		}
		parsed, err := strconv.ParseBool(s)
		return parsed, err == nil, err
	}
	return false, false, fmt.Errorf("not a boolean: %T", val)
}
