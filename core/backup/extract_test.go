package backup

import (
	"testing"
	"time"

	"reg-manager/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Valid(t *testing.T) {
	raw := []byte(`{
		"format_version": 2,
		"metadata": {"exported_at": "2025-11-02T09:30:00Z", "exported_by": "node-a"},
		"tables": [
			{
				"name": "roles",
				"primary_key": ["id"],
				"rows": [
					{"id": 1, "name": "organizer", "level": 10},
					{"id": 2, "name": "usher", "level": 1}
				]
			}
		]
	}`)

	art, err := Extract(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, art.FormatVersion)
	assert.Equal(t, "node-a", art.Metadata.ExportedBy)
	require.NotNil(t, art.Table("roles"))
	assert.Nil(t, art.Table("admins"))
	assert.Equal(t, 2, art.RowCount())

	// Declared counts that agree with the rows pass.
	withCounts := []byte(`{
		"format_version": 2,
		"metadata": {"exported_at": "2025-11-02T09:30:00Z", "record_counts": {"roles": 1}},
		"tables": [{"name": "roles", "primary_key": ["id"], "rows": [{"id": 1}]}]
	}`)
	_, err = Extract(withCounts)
	assert.NoError(t, err)

	// Integer identifiers must survive undamaged.
	row := art.Table("roles").Rows[0]
	assert.Equal(t, record.KindInt, row.Get("id").Kind())
	assert.Equal(t, int64(1), row.Get("id").IntVal())
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"Whitespace", "   \n"},
		{"NotJSON", "not json at all"},
		{"WrongShape", `[1,2,3]`},
		{"TrailingData", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[]}]} extra`},
		{"NoTables", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[]}`},
		{"NoExportedAt", `{"format_version":2,"metadata":{},"tables":[{"name":"roles","primary_key":["id"],"rows":[]}]}`},
		{"UnnamedTable", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"","primary_key":["id"],"rows":[]}]}`},
		{"DuplicateTable", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[]},{"name":"roles","primary_key":["id"],"rows":[]}]}`},
		{"NoPrimaryKey", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":[],"rows":[]}]}`},
		{"RowMissingKey", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[{"name":"x"}]}]}`},
		{"RowNullKey", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[{"id":null}]}]}`},
		{"DuplicateRecord", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[{"id":1},{"id":1}]}]}`},
		{"RecordCountMismatch", `{"format_version":2,"metadata":{"exported_at":"2025-11-02T09:30:00Z","record_counts":{"roles":3}},"tables":[{"name":"roles","primary_key":["id"],"rows":[{"id":1}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := Extract([]byte(tt.raw))
			assert.Nil(t, art)
			assert.ErrorIs(t, err, ErrMalformedArtifact)
		})
	}
}

func TestExtract_UnsupportedVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"TooNew", "3"},
		{"Zero", "0"},
		{"Negative", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"format_version":` + tt.version + `,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[]}]}`
			art, err := Extract([]byte(raw))
			assert.Nil(t, art)
			assert.ErrorIs(t, err, ErrUnsupportedVersion)
		})
	}

	t.Run("OldestSupported", func(t *testing.T) {
		raw := `{"format_version":1,"metadata":{"exported_at":"2025-11-02T09:30:00Z"},"tables":[{"name":"roles","primary_key":["id"],"rows":[]}]}`
		art, err := Extract([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, 1, art.FormatVersion)
	})
}

func TestExtract_CompositeKey(t *testing.T) {
	raw := []byte(`{
		"format_version": 2,
		"metadata": {"exported_at": "2025-11-02T09:30:00Z"},
		"tables": [
			{
				"name": "admin_roles",
				"primary_key": ["admin_id", "role_id"],
				"rows": [
					{"admin_id": 1, "role_id": 2},
					{"admin_id": 1, "role_id": 3}
				]
			}
		]
	}`)

	art, err := Extract(raw)
	require.NoError(t, err)

	snap := art.Table("admin_roles")
	require.NotNil(t, snap)
	assert.Equal(t, "1|2", snap.Key(snap.Rows[0]))
	assert.Equal(t, "1|3", snap.Key(snap.Rows[1]))
}

func TestArtifact_EncodeRoundTrip(t *testing.T) {
	art := &Artifact{
		FormatVersion: FormatVersion,
		Metadata: Metadata{
			ExportedAt: time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC),
			ExportedBy: "node-a",
		},
		Tables: []TableSnapshot{
			{
				Name:       "roles",
				PrimaryKey: []string{"id"},
				Rows: []record.Row{
					{"id": record.Int(1), "name": record.String("organizer"), "updated_at": record.Time(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))},
				},
			},
		},
	}

	raw, err := art.Encode()
	require.NoError(t, err)

	back, err := Extract(raw)
	require.NoError(t, err)

	require.NotNil(t, back.Table("roles"))
	orig := art.Tables[0].Rows[0]
	got := back.Table("roles").Rows[0]
	assert.True(t, orig.Equal(got), "round trip changed the row: %v vs %v", orig, got)
	assert.True(t, art.Metadata.ExportedAt.Equal(back.Metadata.ExportedAt))
}
