package patch

import (
	"sort"

	"reg-manager/core/record"
)

// Patch is the minimal set of field assignments that turns one version of a
// configuration object into another. Minimality is structural: a patch never
// carries a field whose old and new values compare equal. Removed fields
// appear as explicit null assignments.
type Patch struct {
	// Fields maps field names to their new values.
	Fields map[string]record.Value `json:"fields"`
}

// IsEmpty reports whether the patch assigns nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Fields) == 0
}

// FieldNames returns the patched field names in sorted order.
func (p Patch) FieldNames() []string {
	out := make([]string, 0, len(p.Fields))
	for f := range p.Fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Diff compares two versions of a configuration object and returns one
// Change per differing field, in sorted field order, tagged with the
// caller's meta. A field present on only one side compares against null.
func Diff(base, updated record.Row, meta Meta) []Change {
	at := meta.stamp()

	var changes []Change
	for _, f := range fieldUnion(base, updated) {
		oldV, newV := base.Get(f), updated.Get(f)
		if oldV.Equal(newV) {
			continue
		}
		changes = append(changes, Change{
			Field:  f,
			Old:    oldV,
			New:    newV,
			At:     at,
			Source: meta.Source,
			Actor:  meta.Actor,
		})
	}
	return changes
}

// Compute projects the same comparison as Diff down to the assignments a
// receiver needs to catch up: only the fields whose values differ, keyed by
// name. Equal objects produce an empty patch.
func Compute(base, updated record.Row) Patch {
	p := Patch{Fields: make(map[string]record.Value)}
	for _, f := range fieldUnion(base, updated) {
		oldV, newV := base.Get(f), updated.Get(f)
		if !oldV.Equal(newV) {
			p.Fields[f] = newV
		}
	}
	return p
}

// Apply lays a patch over a base object. Only the patched fields are
// touched; every other field of base carries over unchanged. The returned
// changes record the transitions that actually happened: a patch field
// already holding its target value applies as a no-op and leaves no trail.
func Apply(base record.Row, p Patch, meta Meta) (record.Row, []Change) {
	merged := base.Clone()
	if p.IsEmpty() {
		return merged, nil
	}

	at := meta.stamp()

	var changes []Change
	for _, f := range p.FieldNames() {
		oldV, newV := base.Get(f), p.Fields[f]
		merged[f] = newV
		if oldV.Equal(newV) {
			continue
		}
		changes = append(changes, Change{
			Field:  f,
			Old:    oldV,
			New:    newV,
			At:     at,
			Source: meta.Source,
			Actor:  meta.Actor,
		})
	}
	return merged, changes
}

// FieldMismatch is one field on which two supposedly mirrored objects
// disagree.
type FieldMismatch struct {
	// Field is the disagreeing field.
	Field string `json:"field"`

	// A is the first object's value, null when absent.
	A record.Value `json:"a"`

	// B is the second object's value, null when absent.
	B record.Value `json:"b"`
}

// SyncReport is the outcome of a drift check between two objects.
type SyncReport struct {
	// InSync is true when the objects carry equal data.
	InSync bool `json:"in_sync"`

	// Mismatches lists every disagreeing field, in sorted field order.
	Mismatches []FieldMismatch `json:"mismatches,omitempty"`
}

// ValidateSync reports whether two configuration objects hold the same data
// and lists every field on which they disagree. It compares only; no merge
// is performed or suggested.
func ValidateSync(a, b record.Row) SyncReport {
	var mismatches []FieldMismatch
	for _, f := range fieldUnion(a, b) {
		av, bv := a.Get(f), b.Get(f)
		if !av.Equal(bv) {
			mismatches = append(mismatches, FieldMismatch{Field: f, A: av, B: bv})
		}
	}
	return SyncReport{InSync: len(mismatches) == 0, Mismatches: mismatches}
}

// fieldUnion returns the sorted union of both rows' field names, fixing the
// comparison order every function in this package walks fields in.
func fieldUnion(a, b record.Row) []string {
	seen := make(map[string]bool, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for f := range a {
		if !seen[f] {
			seen[f] = true
			union = append(union, f)
		}
	}
	for f := range b {
		if !seen[f] {
			seen[f] = true
			union = append(union, f)
		}
	}
	sort.Strings(union)
	return union
}
