// Package backup exposes the merge engine over HTTP and owns the artifact
// repository.
//
// The engine in core/backup works on decoded artifacts; this feature supplies
// the missing half: artifacts as stored things with references. Uploaded
// documents are validated, assigned a UUID, and kept in object storage under
// artifacts/<uuid>.json. Analyze, merge, and snapshot requests name an
// artifact by that reference.
//
// # HTTP Endpoints
//
//   - POST   /backup/artifacts     : Validate and store an artifact (raw JSON body).
//   - GET    /backup/artifacts     : List stored artifact references.
//   - DELETE /backup/artifacts/:id : Remove a stored artifact.
//   - POST   /backup/analyze       : Read-only classification of an artifact against the store.
//   - POST   /backup/merge         : Apply an artifact (supports dry_run and conflict overrides).
//   - POST   /backup/snapshot      : Capture the current store as a new artifact.
//
// # Serialization
//
// The engine requires one mutating run at a time per store. This service is
// the engine's caller, so it holds that contract: merges take an internal
// lock, analyze runs freely.
package backup
