package settings

import (
	"time"

	"reg-manager/core/record"
)

// Setting is the persisted settings document. The merge engine reads and
// writes the same row through the "settings" table, so this model must stay
// in step with the default merge schema.
type Setting struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Document  string    `gorm:"column:document;type:text" json:"document"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (Setting) TableName() string {
	return "settings"
}

// SettingChange is one recorded field transition. Values are stored as JSON
// scalars so the trail survives type changes of a field.
type SettingChange struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Field     string    `gorm:"column:field" json:"field"`
	OldValue  string    `gorm:"column:old_value;type:text" json:"old_value"`
	NewValue  string    `gorm:"column:new_value;type:text" json:"new_value"`
	ChangedAt time.Time `gorm:"column:changed_at" json:"changed_at"`
	Source    string    `gorm:"column:source" json:"source"`
	Actor     string    `gorm:"column:actor" json:"actor"`
}

// TableName overrides the table name used by GORM.
func (SettingChange) TableName() string {
	return "setting_changes"
}

// PatchRequest carries a settings update: the fields to assign (null clears
// a field), where the update came from, and who made it. An empty source
// means local.
type PatchRequest struct {
	Fields record.Row `json:"fields"`
	Source string     `json:"source"`
	Actor  string     `json:"actor"`
}

// DriftRequest carries a mirror of the document to compare against the
// stored one.
type DriftRequest struct {
	Mirror record.Row `json:"mirror"`
}
