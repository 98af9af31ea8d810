// Package settings manages the application's configuration document.
//
// The document is a flat field map persisted as one JSON row in the settings
// table, the same row the merge engine carries in backup artifacts. Updates
// arrive as patches: only the named fields change, a null assignment clears a
// field, and every effective transition is recorded in the setting_changes
// trail with its source (local, remote, or import), actor, and time.
//
// # HTTP Endpoints
//
//   - GET   /settings         : Current document.
//   - PATCH /settings         : Apply a field patch and record the trail.
//   - GET   /settings/changes : Recorded change trail, optionally filtered by source.
//   - POST  /settings/drift   : Compare a caller-held mirror against the document.
//
// The feature disables itself when the application runs without a database.
package settings
