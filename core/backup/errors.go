package backup

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedArtifact indicates the artifact payload could not be decoded
	// or fails structural validation (missing metadata, rows without their
	// table's primary key, non-object rows).
	ErrMalformedArtifact = errors.New("malformed backup artifact")

	// ErrUnsupportedVersion indicates the artifact declares a format version
	// this build does not understand.
	ErrUnsupportedVersion = errors.New("unsupported artifact format version")

	// ErrPolicyViolation indicates the merge options are inconsistent:
	// an unknown policy name, table filters that exclude everything, or
	// overrides that reference conflicts the analysis never produced.
	ErrPolicyViolation = errors.New("merge policy violation")

	// ErrUnitOfWork indicates the merge transaction failed as a whole and
	// every change was rolled back. Per-record failures are NOT unit-of-work
	// failures; they are collected in Result.Errors instead.
	ErrUnitOfWork = errors.New("merge unit of work failed")
)

// RecordError describes a single row that could not be applied. The merge
// keeps going after a record error; the failed row is rolled back to its
// savepoint and everything else proceeds.
type RecordError struct {
	// Table is the table the row belongs to.
	Table string `json:"table"`

	// RecordID is the canonical primary key of the failed row.
	RecordID string `json:"record_id"`

	// Op is the statement that failed: "insert" or "update".
	Op string `json:"op"`

	// Reason is the database error or validation failure, as text.
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e RecordError) Error() string {
	return fmt.Sprintf("%s[%s] %s: %s", e.Table, e.RecordID, e.Op, e.Reason)
}
