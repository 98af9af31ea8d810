// Package patch tracks field-level edits to configuration objects.
//
// Configuration objects differ from bulk table data: they are small, edited
// independently from more than one call site, and every edit must leave an
// audit trail. The package provides pure functions over record.Row for that
// shape of data: Diff compares two versions and emits one Change per
// differing field, Compute projects the same comparison into a minimal Patch
// for transmission, Apply lays a patch over a base object and returns the
// change trail alongside the merged result, and ValidateSync detects drift
// between two objects that are supposed to mirror each other.
//
// Nothing here touches storage or the network. Persisting objects, patches,
// and change records is the caller's concern.
//
// A removed field is represented as an assignment to null rather than a key
// deletion, so patches stay a flat map of assignments and the change trail
// records the removal like any other transition.
package patch
