package validation

import (
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Violation codes.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	CodePositive = "must_be_positive"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
	}
}

// Present records field as required when ok is false. Use it for values
// that were looked up rather than read as strings.
func Present(field string, ok bool, v Violations) {
	if !ok {
		v[field] = CodeRequired
	}
}

// AnyOf records a violation on the joined field names when none is present.
func AnyOf(fields []string, present bool, v Violations) {
	if !present {
		v[strings.Join(fields, "|")] = CodeRequired
	}
}

// Invalid records that field was present but could not be used.
func Invalid(field string, v Violations) {
	v[field] = CodeInvalid
}

func Positive(field string, val int64, v Violations) {
	if val <= 0 {
		v[field] = CodePositive
	}
}

// Fields returns the violated field names in sorted order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Err returns nil when v is empty, otherwise a NotValid error naming the
// offending fields. Missing fields are reported before invalid ones.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	var missing, invalid []string
	for _, f := range v.Fields() {
		if v[f] == CodeRequired {
			missing = append(missing, strings.ReplaceAll(f, "|", " or "))
		} else {
			invalid = append(invalid, f+" ("+v[f]+")")
		}
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required parameter: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid parameter: "+strings.Join(invalid, ", "))
	}
	return errors.NewNotValid(nil, strings.Join(parts, "; "))
}
