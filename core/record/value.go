package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	// KindNull is the zero Kind; it represents SQL NULL and JSON null.
	KindNull Kind = iota
	// KindBool is a boolean value.
	KindBool
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindString is a UTF-8 string.
	KindString
	// KindTime is a point in time.
	KindTime
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a small tagged union over the scalar types that appear in table
// rows and configuration objects: null, bool, int, float, string, and time.
// Using an explicit union instead of bare interface{} keeps comparisons total
// and typed regardless of whether a value came from a decoded artifact or a
// database scan.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value. Strings in RFC 3339 form are NOT sniffed
// here; use FromAny for boundary data that may carry encoded timestamps.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time returns a time value, normalized to UTC.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.UTC()} }

// timeLayouts are the encodings recognized when a string crosses a data
// boundary. RFC 3339 covers JSON artifacts; the space-separated layouts cover
// what SQLite hands back for DATETIME columns stored as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// FromAny normalizes a dynamically-typed scalar into a Value. It accepts the
// types produced by encoding/json (with UseNumber), by database/sql scans
// through GORM, and by plain Go literals in tests. Strings that parse as a
// known timestamp encoding become time values, so artifact rows and database
// rows compare symmetrically. Unrecognized types degrade to their fmt string
// form rather than failing, since a backup should survive odd driver types
// instead of aborting on them.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}
		if f, err := x.Float64(); err == nil {
			return Float(f)
		}
		return String(x.String())
	case time.Time:
		return Time(x)
	case []byte:
		return fromString(string(x))
	case string:
		return fromString(x)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// fromString sniffs timestamp encodings before falling back to a plain string.
func fromString(s string) Value {
	if len(s) >= 19 && (s[4] == '-' && s[7] == '-') {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Time(t)
			}
		}
	}
	return String(s)
}

// Kind reports which member of the union is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean member; false unless Kind is KindBool.
func (v Value) BoolVal() bool { return v.b }

// IntVal returns the integer member; 0 unless Kind is KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float member; 0 unless Kind is KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// StringVal returns the string member; "" unless Kind is KindString.
func (v Value) StringVal() string { return v.s }

// TimeVal returns the time member; the zero time unless Kind is KindTime.
func (v Value) TimeVal() time.Time { return v.t }

// Equal reports whether two values are equal. Comparison is total: every
// pair of values yields a defined answer. Two cross-kind equivalences exist
// because the same logical value arrives differently depending on the source:
//   - int and float compare numerically (JSON numbers vs. INTEGER columns),
//   - bool compares against 0/1 integers (MySQL surfaces booleans as TINYINT).
//
// Times compare as instants, so equal moments in different zones are equal.
func (v Value) Equal(other Value) bool {
	if v.kind == other.kind {
		switch v.kind {
		case KindNull:
			return true
		case KindBool:
			return v.b == other.b
		case KindInt:
			return v.i == other.i
		case KindFloat:
			return v.f == other.f
		case KindString:
			return v.s == other.s
		case KindTime:
			return v.t.Equal(other.t)
		}
	}
	if n1, ok1 := v.numeric(); ok1 {
		if n2, ok2 := other.numeric(); ok2 {
			return n1 == n2
		}
	}
	return false
}

// numeric projects int, float, and bool values onto float64 for cross-kind
// comparison. Strings, times, and nulls are not numeric.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Compare orders two values: -1, 0, or 1. Values of different kinds order by
// kind except for the numeric equivalences recognized by Equal. Used for
// deterministic output ordering, not for semantics.
func (v Value) Compare(other Value) int {
	if n1, ok1 := v.numeric(); ok1 {
		if n2, ok2 := other.numeric(); ok2 {
			switch {
			case n1 < n2:
				return -1
			case n1 > n2:
				return 1
			default:
				return 0
			}
		}
	}
	if v.kind != other.kind {
		if v.kind < other.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindString:
		return strings.Compare(v.s, other.s)
	case KindTime:
		switch {
		case v.t.Before(other.t):
			return -1
		case v.t.After(other.t):
			return 1
		}
	}
	return 0
}

// Canonical returns a stable string form used for map keys and record IDs.
// It agrees with Equal: values that compare equal share a canonical form
// (integral floats collapse to their integer form, booleans to 0/1).
func (v Value) Canonical() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Native returns the value as the Go type the database driver expects.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// MarshalJSON encodes the value as the matching JSON scalar. Times encode as
// RFC 3339 strings, which FromAny recognizes on the way back in.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	default:
		return json.Marshal(v.Native())
	}
}

// UnmarshalJSON decodes a JSON scalar, preserving integer precision via
// json.Number and applying the same normalization as FromAny.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, bool, string, json.Number:
		*v = FromAny(raw)
		return nil
	default:
		return fmt.Errorf("record: value must be a JSON scalar, got %T", raw)
	}
}
