package models

import (
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/pkg/enums"
)

// ImportExportLog is the append-only audit record written once per completed
// import or export operation. Rows are never mutated after creation.
type ImportExportLog struct {
	ID            string             `gorm:"column:id;primaryKey"`
	Type          enums.TransferType `gorm:"column:type;not null;index:idx_transfer_logs_type"`
	Timestamp     int64              `gorm:"column:timestamp;autoCreateTime:milli"`
	SelectedTypes dbtypes.StringList `gorm:"column:selected_types;not null"`
	Inserted      int                `gorm:"column:inserted;not null;default:0"`
	Updated       int                `gorm:"column:updated;not null;default:0"`
	Skipped       int                `gorm:"column:skipped;not null;default:0"`
	Errors        int                `gorm:"column:errors;not null;default:0"`
	Details       dbtypes.StringList `gorm:"column:details;not null"`
	FileNames     dbtypes.StringList `gorm:"column:file_names"`
}

func (ImportExportLog) TableName() string { return "import_export_logs" }
