package patch

import (
	"sort"
	"time"

	"reg-manager/core/record"
)

// Source identifies the call site an edit came from.
type Source string

const (
	// SourceLocal marks edits made through this instance's own surfaces.
	SourceLocal Source = "local"

	// SourceRemote marks edits received from a mirrored instance.
	SourceRemote Source = "remote"

	// SourceImport marks values that arrived through a backup merge.
	SourceImport Source = "import"
)

// Meta tags the changes produced by one comparison or patch application.
type Meta struct {
	// Source is the call site the edit came from.
	Source Source

	// Actor optionally identifies who made the edit.
	Actor string

	// At is the timestamp stamped on the produced changes. Zero means the
	// time of the call. All changes from one call share one stamp.
	At time.Time
}

func (m Meta) stamp() time.Time {
	if m.At.IsZero() {
		return time.Now().UTC()
	}
	return m.At
}

// Change records one field's transition from an old to a new value. Changes
// are append-only: a later edit to the same field produces a new Change, it
// never rewrites an earlier one.
type Change struct {
	// Field is the configuration field that changed.
	Field string `json:"field"`

	// Old is the value before the edit. Null when the field did not exist.
	Old record.Value `json:"old_value"`

	// New is the value after the edit. Null when the edit removed the field.
	New record.Value `json:"new_value"`

	// At is when the change was recorded.
	At time.Time `json:"at"`

	// Source is the call site the change came from.
	Source Source `json:"source"`

	// Actor identifies who made the edit, when known.
	Actor string `json:"actor,omitempty"`
}

// MergeChanges flattens several change histories into one timeline, stably
// sorted by timestamp. Entries with equal stamps keep the order the caller
// passed them in, so per-source ordering survives the merge.
func MergeChanges(sets ...[]Change) []Change {
	total := 0
	for _, s := range sets {
		total += len(s)
	}

	merged := make([]Change, 0, total)
	for _, s := range sets {
		merged = append(merged, s...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].At.Before(merged[j].At)
	})
	return merged
}
