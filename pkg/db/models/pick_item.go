package models

import (
	"github.com/openshelf/picklist-backend/pkg/enums"
)

// PickItem is one line on a pick list. Quantity/IsCarton is the unified shape;
// the legacy quantity_units/quantity_bulk pair survives only until the
// migration engine rewrites it, after which both legacy columns are NULL and
// Quantity is always >= 1.
type PickItem struct {
	ID         string               `gorm:"column:id;primaryKey"`
	PickListID string               `gorm:"column:pick_list_id;not null;index:idx_pick_items_list"`
	ProductID  string               `gorm:"column:product_id;not null;index:idx_pick_items_product"`
	Quantity   int                  `gorm:"column:quantity"`
	IsCarton   bool                 `gorm:"column:is_carton"`
	Status     enums.PickItemStatus `gorm:"column:status;not null;default:pending;index:idx_pick_items_status"`

	LegacyQuantityUnits *int `gorm:"column:quantity_units"`
	LegacyQuantityBulk  *int `gorm:"column:quantity_bulk"`

	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64 `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (PickItem) TableName() string { return "pick_items" }
