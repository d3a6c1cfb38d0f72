// Package schema brings a persisted dataset created under an older layout up
// to the current invariants. Steps are an explicit ordered list applied at
// most once per store lifetime, tracked by a marker row, and every run is one
// atomic transaction: a crash mid-migration leaves the store at the
// pre-migration version.
package schema

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Step is one named data migration. Apply reads affected rows, computes
// diffs and writes them through tx; it must be deterministic.
type Step struct {
	Seq   int
	Name  string
	Apply func(tx *gorm.DB, now int64) error
}

// Engine applies pending steps in declared order.
type Engine struct {
	client  *db.Client
	logg    *logger.Logger
	metrics *metrics.OperationMetrics
	steps   []Step
}

func NewEngine(client *db.Client, logg *logger.Logger, ops *metrics.OperationMetrics) *Engine {
	return &Engine{
		client:  client,
		logg:    logg,
		metrics: ops,
		steps:   migrationSteps(),
	}
}

// Run applies every step newer than the persisted marker inside a single
// transaction. A failure aborts the whole run; the caller must treat that as
// fatal and not serve from the store.
func (e *Engine) Run(ctx context.Context) error {
	start := time.Now()

	current, err := e.currentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema marker: %w", err)
	}

	var pending []Step
	for _, step := range e.steps {
		if step.Seq > current {
			pending = append(pending, step)
		}
	}
	if len(pending) == 0 {
		e.logg.Info(ctx, "data migrations up to date")
		return nil
	}

	err = e.client.WithTx(ctx, func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		for _, step := range pending {
			stepCtx := e.logg.WithFields(ctx, map[string]any{"step": step.Seq, "name": step.Name})
			e.logg.Info(stepCtx, "applying data migration")
			if err := step.Apply(tx, now); err != nil {
				return fmt.Errorf("step %d (%s): %w", step.Seq, step.Name, err)
			}
			if err := setVersion(tx, step.Seq); err != nil {
				return fmt.Errorf("persisting marker after step %d: %w", step.Seq, err)
			}
		}
		return nil
	})

	e.metrics.ObserveDuration("migrate", time.Since(start))
	if err != nil {
		e.metrics.IncFailure("migrate")
		return err
	}
	e.metrics.IncSuccess("migrate")
	e.logg.Info(e.logg.WithField(ctx, "steps", len(pending)), "data migrations applied")
	return nil
}

// Normalize re-runs the name-to-id normalization pass. Safe on every
// startup: a fully normalized store produces zero writes.
func (e *Engine) Normalize(ctx context.Context) error {
	return e.client.WithTx(ctx, func(tx *gorm.DB) error {
		return normalizeReferences(tx, time.Now().UnixMilli())
	})
}

func (e *Engine) currentVersion(ctx context.Context) (int, error) {
	var meta models.SchemaMeta
	err := e.client.DB().WithContext(ctx).
		First(&meta, "key = ?", models.MetaKeyDataVersion).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(meta.Value)
	if err != nil {
		return 0, fmt.Errorf("corrupt schema marker %q: %w", meta.Value, err)
	}
	return version, nil
}

func setVersion(tx *gorm.DB, version int) error {
	meta := models.SchemaMeta{
		Key:   models.MetaKeyDataVersion,
		Value: strconv.Itoa(version),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}
