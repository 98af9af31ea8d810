package backup

import (
	"time"

	engine "reg-manager/core/backup"
)

// ArtifactRef is what callers hold instead of artifact bytes.
//
// Upload and snapshot responses carry the full reference. List responses only
// carry what object storage knows without opening each document: ID, Size,
// and StoredAt.
type ArtifactRef struct {
	ID         string    `json:"id"`
	Size       int64     `json:"size"`
	Tables     int       `json:"tables,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	ExportedAt time.Time `json:"exported_at,omitempty"`
	ExportedBy string    `json:"exported_by,omitempty"`
	StoredAt   time.Time `json:"stored_at,omitempty"`
}

// AnalyzeRequest names a stored artifact and the options for the run.
type AnalyzeRequest struct {
	ArtifactID string         `json:"artifact_id"`
	Options    engine.Options `json:"options"`
}

// MergeRequest extends an analyze request with per-conflict overrides,
// keyed "table/recordID".
type MergeRequest struct {
	ArtifactID string           `json:"artifact_id"`
	Options    engine.Options   `json:"options"`
	Overrides  engine.Overrides `json:"overrides,omitempty"`
}

// SnapshotRequest optionally labels who asked for the export.
type SnapshotRequest struct {
	ExportedBy string `json:"exported_by"`
}

func refFromArtifact(id string, size int64, art *engine.Artifact) *ArtifactRef {
	return &ArtifactRef{
		ID:         id,
		Size:       size,
		Tables:     len(art.Tables),
		Rows:       art.RowCount(),
		ExportedAt: art.Metadata.ExportedAt,
		ExportedBy: art.Metadata.ExportedBy,
		StoredAt:   time.Now().UTC(),
	}
}
