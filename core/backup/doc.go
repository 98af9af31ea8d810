// Package backup implements the incremental backup merge engine: it takes a
// previously exported snapshot of the registration store and reconciles it
// against the live store without full replacement, resolving per-record
// conflicts under a configurable policy and reporting exactly what changed.
//
// # Pipeline
//
// The engine runs in three phases, each usable on its own:
//
// 1. Extract parses and validates a raw artifact into typed table snapshots.
// It is a pure parse with no store access.
//
// 2. Analyze loads each included table into a key-addressed index with one
// query, classifies every incoming row as new, identical, or conflicting,
// and proposes a resolution per the active policy. Analysis never writes.
//
// 3. Apply executes the analysis inside one transaction. Every row write
// runs under a savepoint: a failing row rolls back alone, is recorded, and
// the merge continues. The whole unit of work fails only when the store goes
// away or a new row that later tables depend on cannot be inserted.
//
// CreateSnapshot is the inverse of the pipeline: it captures the live store
// as a fresh artifact for a later merge or export.
//
// # Policies
//
// Conflicting rows resolve under one of four policies: incoming_wins,
// current_wins, merge_fields (field-by-field union, optionally preferring
// the newer row), and manual, which surfaces conflicts to the caller for
// per-record overrides. A manual conflict that never receives an override
// is skipped, counted separately as skipped_unresolved, and logged, so a
// silently discarded update cannot hide inside ordinary skip counts.
//
// # Table ordering
//
// Apply order is data-driven: a Schema document declares each table's
// primary key, update-timestamp column, and direct dependencies, and the
// executor toposorts the included tables so parents land before the rows
// that reference them. Tables the schema does not know about apply last, in
// artifact order.
//
// # Usage
//
//	art, err := backup.Extract(raw)
//	if err != nil { ... }
//
//	analysis, err := backup.Analyze(ctx, db, schema, art, opts)
//	if err != nil { ... }
//
//	result, err := backup.Apply(ctx, db, schema, analysis, log)
package backup
