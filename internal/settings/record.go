package settings

import (
	"fmt"
	"strconv"
)

// Record is a settings record as exchanged with the host.
// Values are strings, numbers (float64 after JSON decoding) or booleans.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are scalars, so a
// shallow copy is independent of the original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether field is present with a non-nil value.
// A present false, 0 or "" counts as present.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns field coerced to its string form.
// Missing and nil fields return "". Integral numbers print without a
// decimal point so "3" and 3 compare equal after coercion.
func (r Record) String(field string) string {
	return toString(r[field])
}

// Bool returns field as a boolean. Strings "true" and "1" are true.
func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// Merge returns a new record with partial applied over r.
// Fields in partial win; fields absent from partial are kept untouched.
func (r Record) Merge(partial Record) Record {
	out := make(Record, len(r)+len(partial))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same fields with the same
// coerced values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok {
			return false
		}
		if (v == nil) != (ov == nil) || toString(v) != toString(ov) {
			return false
		}
	}
	return true
}

// FormatValue returns v in the string form used by Record.String.
func FormatValue(v any) string { return toString(v) }

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
