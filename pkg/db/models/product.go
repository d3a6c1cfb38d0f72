package models

// Product is a stocked item. Name is unique case/whitespace-insensitively
// among products; barcode, when present, is unique across products. Both
// guards live in the catalog service since the normalized-name rule cannot be
// expressed as a plain column constraint.
type Product struct {
	ID           string  `gorm:"column:id;primaryKey"`
	Name         string  `gorm:"column:name;not null;index:idx_products_name"`
	Category     string  `gorm:"column:category;index:idx_products_category"`
	UnitType     string  `gorm:"column:unit_type;not null;default:unit"`
	BulkName     *string `gorm:"column:bulk_name"`
	UnitsPerBulk *int    `gorm:"column:units_per_bulk"`
	Barcode      *string `gorm:"column:barcode;index:idx_products_barcode"`
	Archived     bool    `gorm:"column:archived;not null;default:false;index:idx_products_archived"`
	CreatedAt    int64   `gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt    int64   `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (Product) TableName() string { return "products" }
