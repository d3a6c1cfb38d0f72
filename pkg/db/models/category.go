package models

// Category is the canonical product category. Products and pick lists
// reference it by id; legacy rows may still carry raw names until the
// normalization pass rewrites them.
type Category struct {
	ID        string `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null;index:idx_categories_name"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (Category) TableName() string { return "categories" }
