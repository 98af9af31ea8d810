package record

import (
	"encoding/json"
	"sort"
	"strings"
)

// Row is one table row keyed by column name. Field names are treated
// case-sensitively; loaders normalize them to lowercase before rows reach
// the engine, matching how the schema inspector reports columns.
type Row map[string]Value

// FromMap converts a loosely-typed map, as returned by GORM scans or JSON
// decoding, into a Row with every value normalized through FromAny.
func FromMap(m map[string]any) Row {
	r := make(Row, len(m))
	for k, v := range m {
		r[k] = FromAny(v)
	}
	return r
}

// Get returns the value for a field, or null when the field is absent.
// A stored null and a missing field are indistinguishable through Get;
// use Has when the difference matters.
func (r Row) Get(field string) Value {
	if v, ok := r[field]; ok {
		return v
	}
	return Null()
}

// Has reports whether the field is present, even if its value is null.
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Fields returns the row's field names in sorted order.
func (r Row) Fields() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two rows carry the same fields with equal values.
// A field that is present with a null value is distinct from an absent one.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Key derives a composite identifier from the named fields, joined with "|".
// Canonical forms are used so rows that compare equal on their key fields
// produce the same key regardless of source typing.
func (r Row) Key(fields ...string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = r.Get(f).Canonical()
	}
	return strings.Join(parts, "|")
}

// Native converts the row back to the map form GORM expects for Create and
// Updates calls.
func (r Row) Native() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Native()
	}
	return out
}

// UnmarshalJSON decodes a JSON object into a Row. Numbers are decoded through
// json.Number so 64-bit identifiers survive untruncated, and values are
// normalized with FromAny.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*r = FromMap(raw)
	return nil
}
