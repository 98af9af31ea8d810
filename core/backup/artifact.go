package backup

import (
	"encoding/json"
	"time"

	"reg-manager/core/record"
)

const (
	// FormatVersion is the artifact format this build writes.
	FormatVersion = 2

	// MinFormatVersion is the oldest artifact format this build accepts.
	MinFormatVersion = 1
)

// Metadata describes where and when an artifact was produced.
type Metadata struct {
	// ExportedAt is the moment the source system produced the artifact.
	ExportedAt time.Time `json:"exported_at"`

	// ExportedBy identifies the exporting host or operator.
	ExportedBy string `json:"exported_by"`

	// SourceVersion is the application version of the exporting system.
	SourceVersion string `json:"source_version,omitempty"`

	// RecordCounts declares, per table, how many rows the exporter wrote.
	// Exporters that fill it give Extract a cheap truncation check; an
	// artifact without counts is still valid.
	RecordCounts map[string]int `json:"record_counts,omitempty"`
}

// TableSnapshot is the full contents of one table at export time.
type TableSnapshot struct {
	// Name is the table name, lowercase.
	Name string `json:"name"`

	// PrimaryKey lists the columns that identify a row. Composite keys are
	// supported; order matters for key derivation.
	PrimaryKey []string `json:"primary_key"`

	// Rows holds every exported row.
	Rows []record.Row `json:"rows"`
}

// Key derives the canonical record identifier for a row of this table.
func (t *TableSnapshot) Key(row record.Row) string {
	return row.Key(t.PrimaryKey...)
}

// Artifact is a decoded backup: a self-describing set of table snapshots
// plus export metadata.
type Artifact struct {
	// FormatVersion is the artifact format the payload was written in.
	FormatVersion int `json:"format_version"`

	// Metadata carries export provenance.
	Metadata Metadata `json:"metadata"`

	// Tables holds the snapshots in the order the exporter wrote them.
	Tables []TableSnapshot `json:"tables"`
}

// Table returns the snapshot with the given name, or nil when the artifact
// does not carry that table.
func (a *Artifact) Table(name string) *TableSnapshot {
	for i := range a.Tables {
		if a.Tables[i].Name == name {
			return &a.Tables[i]
		}
	}
	return nil
}

// TableNames returns the names of all carried tables in artifact order.
func (a *Artifact) TableNames() []string {
	out := make([]string, len(a.Tables))
	for i := range a.Tables {
		out[i] = a.Tables[i].Name
	}
	return out
}

// RowCount returns the total number of rows across all tables.
func (a *Artifact) RowCount() int {
	n := 0
	for i := range a.Tables {
		n += len(a.Tables[i].Rows)
	}
	return n
}

// Encode serializes the artifact to its JSON wire form.
func (a *Artifact) Encode() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
