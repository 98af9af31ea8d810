package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reg-manager/core/record"

	"gorm.io/gorm"
)

// CreateSnapshot captures the current contents of every schema table as a
// fresh artifact. It is a pure read: no merge semantics, no writes. The
// produced artifact feeds a later analyze/merge cycle or serves as a
// point-in-time export.
//
// Tables appear in schema declaration order and rows in primary-key order,
// so snapshots of identical stores are identical documents.
func CreateSnapshot(ctx context.Context, db *gorm.DB, schema *Schema, exportedBy string) (*Artifact, error) {
	art := &Artifact{
		FormatVersion: FormatVersion,
		Metadata: Metadata{
			ExportedAt:   time.Now().UTC(),
			ExportedBy:   exportedBy,
			RecordCounts: make(map[string]int, len(schema.Tables)),
		},
	}

	for i := range schema.Tables {
		spec := &schema.Tables[i]

		var raw []map[string]interface{}
		err := db.WithContext(ctx).
			Table(spec.Name).
			Order(strings.Join(spec.PrimaryKey, ", ")).
			Find(&raw).Error
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot table %q: %w", spec.Name, err)
		}

		snap := TableSnapshot{
			Name:       spec.Name,
			PrimaryKey: spec.PrimaryKey,
			Rows:       make([]record.Row, 0, len(raw)),
		}
		for _, m := range raw {
			snap.Rows = append(snap.Rows, record.FromMap(m))
		}
		art.Tables = append(art.Tables, snap)
		art.Metadata.RecordCounts[spec.Name] = len(snap.Rows)
	}

	return art, nil
}
