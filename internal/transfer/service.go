// Package transfer moves entity collections in and out of the store as
// CSV/ZIP payloads and keeps the append-only import/export audit trail.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service exposes bulk export, bulk import and log access.
type Service interface {
	Export(ctx context.Context, selected []string) (*ExportResult, error)
	Import(ctx context.Context, files []File, opts ImportOptions) (*LogDTO, error)
	ListLogs(ctx context.Context) ([]LogDTO, error)
	GetLog(ctx context.Context, logID string) (*LogDTO, error)
}

// File is one uploaded payload: a loose CSV or a ZIP archive.
type File struct {
	Name string
	Data []byte
}

// ImportOptions tunes one import run.
type ImportOptions struct {
	AllowAutoCreateMissing bool
}

// ExportResult carries the produced blob and the log entry written for it.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Log         *LogDTO
}

type service struct {
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics
}

// NewService constructs a transfer service instance.
func NewService(dbClient *db.Client, logg *logger.Logger, ops *metrics.OperationMetrics) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{dbClient: dbClient, logg: logg, metrics: ops}, nil
}

// DefaultImportOptions derives run options from the service configuration.
func DefaultImportOptions(cfg config.ImportConfig) ImportOptions {
	return ImportOptions{AllowAutoCreateMissing: cfg.AutoCreateMissing}
}

func (s *service) ListLogs(ctx context.Context) ([]LogDTO, error) {
	var rows []models.ImportExportLog
	if err := s.dbClient.DB().WithContext(ctx).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transfer logs")
	}
	return NewLogDTOs(rows), nil
}

func (s *service) GetLog(ctx context.Context, logID string) (*LogDTO, error) {
	var row models.ImportExportLog
	err := s.dbClient.DB().WithContext(ctx).First(&row, "id = ?", logID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transfer log not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transfer log")
	}
	return NewLogDTO(&row), nil
}

func (s *service) appendLog(ctx context.Context, log *models.ImportExportLog) error {
	return s.dbClient.DB().WithContext(ctx).Create(log).Error
}
