package models

// SchemaMeta is a key/value marker table. The data migration engine persists
// its last applied step under MetaKeyDataVersion.
type SchemaMeta struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (SchemaMeta) TableName() string { return "schema_meta" }

// MetaKeyDataVersion is the persisted last-applied data migration step.
const MetaKeyDataVersion = "data_schema_version"
