package transfer

import (
	"fmt"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/enums"
)

// LogSummary carries the per-run reconciliation counters.
type LogSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// LogDTO is the API-facing import/export log shape; it is also the payload of
// the per-log JSON download.
type LogDTO struct {
	ID            string             `json:"id"`
	Type          enums.TransferType `json:"type"`
	Timestamp     int64              `json:"timestamp"`
	SelectedTypes []string           `json:"selected_types"`
	Summary       LogSummary         `json:"summary"`
	Details       []string           `json:"details"`
	FileNames     []string           `json:"file_names,omitempty"`
}

func NewLogDTO(log *models.ImportExportLog) *LogDTO {
	dto := &LogDTO{
		ID:            log.ID,
		Type:          log.Type,
		Timestamp:     log.Timestamp,
		SelectedTypes: log.SelectedTypes,
		Summary: LogSummary{
			Inserted: log.Inserted,
			Updated:  log.Updated,
			Skipped:  log.Skipped,
			Errors:   log.Errors,
		},
		Details:   log.Details,
		FileNames: log.FileNames,
	}
	if dto.SelectedTypes == nil {
		dto.SelectedTypes = []string{}
	}
	if dto.Details == nil {
		dto.Details = []string{}
	}
	return dto
}

func NewLogDTOs(rows []models.ImportExportLog) []LogDTO {
	out := make([]LogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewLogDTO(&rows[i]))
	}
	return out
}

// LogFileName names the downloadable JSON artifact for one log entry.
func LogFileName(log *LogDTO) string {
	return fmt.Sprintf("%s-log-%d.json", log.Type, log.Timestamp)
}
