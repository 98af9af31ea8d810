package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Create a test table
	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE attendees (id INTEGER PRIMARY KEY, full_name TEXT, email TEXT)").Error
	assert.NoError(t, err)

	// Test GetTableColumns
	columns, err := GetTableColumns(db, "attendees")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Map columns to map for easy assertion
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["full_name"])
	assert.Equal(t, "text", colMap["email"])

	// Test non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	// PRAGMA table_info returns empty result for non-existent table in SQLite, implies no error but empty columns
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestColumnSet(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)

	err = db.Exec("CREATE TABLE roles (id INTEGER PRIMARY KEY, name TEXT)").Error
	assert.NoError(t, err)

	set, err := ColumnSet(db, "roles")
	assert.NoError(t, err)
	assert.True(t, set["id"])
	assert.True(t, set["name"])
	assert.False(t, set["unknown"])
}
