// Package seed populates an empty store with a small starter dataset. Reruns
// never duplicate rows: every candidate is deduplicated against existing data
// by normalized name before insertion.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/internal/refs"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/enums"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/metrics"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

var seedAreas = []string{
	"Shop Floor",
	"Stock Room",
}

var seedCategories = []string{
	"Produce",
	"Dairy",
	"Bakery",
	"Beverages",
	"Household",
}

type seedProduct struct {
	name     string
	category string
}

var seedProducts = []seedProduct{
	{name: "Milk", category: "Dairy"},
	{name: "Butter", category: "Dairy"},
	{name: "Bread", category: "Bakery"},
	{name: "Apples", category: "Produce"},
	{name: "Sparkling Water", category: "Beverages"},
	{name: "Dish Soap", category: "Household"},
}

// Loader inserts the starter rows that are not already present.
type Loader struct {
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics
}

func NewLoader(dbClient *db.Client, logg *logger.Logger, ops *metrics.OperationMetrics) (*Loader, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Loader{dbClient: dbClient, logg: logg, metrics: ops}, nil
}

// Run seeds areas, categories and products in one transaction. Candidates
// whose normalized name already exists are dropped, so a second run is a
// no-op.
func (l *Loader) Run(ctx context.Context) error {
	start := time.Now()
	ctx = l.logg.WithOperation(ctx, "seed")

	var inserted int
	err := l.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := seedNamed(tx, seedAreas,
			func() (map[string]struct{}, error) { return existingNames(tx, &models.Area{}) },
			func(name string) error {
				return tx.Create(&models.Area{ID: uuid.NewString(), Name: name}).Error
			})
		if err != nil {
			return err
		}
		inserted += count

		count, err = seedNamed(tx, seedCategories,
			func() (map[string]struct{}, error) { return existingNames(tx, &models.Category{}) },
			func(name string) error {
				return tx.Create(&models.Category{ID: uuid.NewString(), Name: name}).Error
			})
		if err != nil {
			return err
		}
		inserted += count

		count, err = seedProductRows(tx)
		if err != nil {
			return err
		}
		inserted += count
		return nil
	})

	l.metrics.ObserveDuration("seed", time.Since(start))
	if err != nil {
		l.metrics.IncFailure("seed")
		return fmt.Errorf("seeding store: %w", err)
	}
	l.metrics.IncSuccess("seed")
	l.logg.Info(l.logg.WithField(ctx, "inserted", inserted), "seed completed")
	return nil
}

func seedNamed(tx *gorm.DB, candidates []string,
	loadExisting func() (map[string]struct{}, error), insert func(name string) error) (int, error) {
	known, err := loadExisting()
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, candidate := range candidates {
		normalized := names.Normalize(candidate)
		if normalized == "" {
			continue
		}
		if _, ok := known[normalized]; ok {
			continue
		}
		if err := insert(candidate); err != nil {
			return inserted, fmt.Errorf("inserting seed row %q: %w", candidate, err)
		}
		known[normalized] = struct{}{}
		inserted++
	}
	return inserted, nil
}

func seedProductRows(tx *gorm.DB) (int, error) {
	known, err := existingNames(tx, &models.Product{})
	if err != nil {
		return 0, err
	}
	resolver := refs.NewResolver(tx)

	inserted := 0
	for _, candidate := range seedProducts {
		normalized := names.Normalize(candidate.name)
		if _, ok := known[normalized]; ok {
			continue
		}
		categoryID, err := resolver.Category(candidate.category, true)
		if err != nil {
			return inserted, err
		}
		bulkName := enums.DefaultBulkName
		product := models.Product{
			ID:       uuid.NewString(),
			Name:     candidate.name,
			Category: categoryID,
			UnitType: enums.DefaultUnitType,
			BulkName: &bulkName,
		}
		if err := tx.Create(&product).Error; err != nil {
			return inserted, fmt.Errorf("inserting seed product %q: %w", candidate.name, err)
		}
		known[normalized] = struct{}{}
		inserted++
	}
	return inserted, nil
}

func existingNames(tx *gorm.DB, model any) (map[string]struct{}, error) {
	type row struct {
		Name string
	}
	var rows []row
	if err := tx.Model(model).Select("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		out[names.Normalize(r.Name)] = struct{}{}
	}
	return out, nil
}
