package models

import (
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
)

// PickList scopes a restocking session to an area and a category filter.
// Categories holds category ids post-migration; a NULL column (nil slice)
// marks a legacy row the defaults backfill has not touched yet.
type PickList struct {
	ID                 string             `gorm:"column:id;primaryKey"`
	AreaID             string             `gorm:"column:area_id;not null;index:idx_pick_lists_area"`
	CreatedAt          int64              `gorm:"column:created_at;autoCreateTime:milli"`
	CompletedAt        *int64             `gorm:"column:completed_at"`
	Notes              *string            `gorm:"column:notes"`
	Categories         dbtypes.StringList `gorm:"column:categories"`
	AutoAddNewProducts bool               `gorm:"column:auto_add_new_products"`
	UpdatedAt          int64              `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (PickList) TableName() string { return "pick_lists" }

// Open reports whether the list is still being picked.
func (p PickList) Open() bool { return p.CompletedAt == nil }
