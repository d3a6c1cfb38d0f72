package models

// Area represents a physical restocking location.
type Area struct {
	ID        string `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null;index:idx_areas_name"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (Area) TableName() string { return "areas" }
