package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/internal/refs"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/enums"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

func migrationSteps() []Step {
	return []Step{
		{Seq: 1, Name: "category-backfill-from-products", Apply: backfillCategoriesFromProducts},
		{Seq: 2, Name: "barcode-dedupe", Apply: dedupeBarcodes},
		{Seq: 3, Name: "pick-item-quantity-unification", Apply: unifyPickItemQuantities},
		{Seq: 4, Name: "pick-item-quantity-completion", Apply: completePickItemQuantities},
		{Seq: 5, Name: "pick-list-defaults-backfill", Apply: backfillPickListDefaults},
		{Seq: 6, Name: "reference-normalization", Apply: normalizeReferences},
	}
}

// backfillCategoriesFromProducts creates one category per distinct non-empty
// product.category value, but only on stores that predate the category table.
// Products keep their raw values; the normalization pass links them later.
func backfillCategoriesFromProducts(tx *gorm.DB, now int64) error {
	var count int64
	if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var values []string
	if err := tx.Model(&models.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Pluck("category", &values).Error; err != nil {
		return err
	}

	sort.Strings(values)
	seen := map[string]struct{}{}
	for _, value := range values {
		normalized := names.Normalize(value)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}

		category := models.Category{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(value),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("creating category %q: %w", category.Name, err)
		}
	}
	return nil
}

// dedupeBarcodes keeps each shared barcode on the product with the
// lexicographically-first id and clears it everywhere else.
func dedupeBarcodes(tx *gorm.DB, now int64) error {
	type row struct {
		ID      string
		Barcode string
	}
	var rows []row
	if err := tx.Model(&models.Product{}).
		Select("id", "barcode").
		Where("barcode IS NOT NULL AND barcode <> ''").
		Find(&rows).Error; err != nil {
		return err
	}

	byBarcode := map[string][]string{}
	for _, r := range rows {
		byBarcode[r.Barcode] = append(byBarcode[r.Barcode], r.ID)
	}

	for _, ids := range byBarcode {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		losers := ids[1:]
		if err := tx.Model(&models.Product{}).
			Where("id IN ?", losers).
			Updates(map[string]any{"barcode": nil, "updated_at": now}).Error; err != nil {
			return err
		}
	}
	return nil
}

// unifyPickItemQuantities rewrites legacy quantity_units/quantity_bulk rows
// into the quantity/is_carton pair. A row with both legacy fields positive is
// kept as the units item and a new carton row is inserted for the bulk
// portion; this is the only step that grows the row count.
func unifyPickItemQuantities(tx *gorm.DB, now int64) error {
	var rows []pickItemRow
	if err := tx.Where("quantity IS NULL").Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		switch classifyPickItem(row) {
		case ShapeLegacyUnits:
			if err := rewriteUnified(tx, row.ID, *row.QuantityUnits, false, now); err != nil {
				return err
			}
		case ShapeLegacyBulk:
			if err := rewriteUnified(tx, row.ID, *row.QuantityBulk, true, now); err != nil {
				return err
			}
		case ShapeLegacyMixed:
			if err := rewriteUnified(tx, row.ID, *row.QuantityUnits, false, now); err != nil {
				return err
			}
			carton := models.PickItem{
				ID:         uuid.NewString(),
				PickListID: row.PickListID,
				ProductID:  row.ProductID,
				Quantity:   *row.QuantityBulk,
				IsCarton:   true,
				Status:     statusOrDefault(row.Status),
				CreatedAt:  row.CreatedAt,
				UpdatedAt:  now,
			}
			if err := tx.Create(&carton).Error; err != nil {
				return fmt.Errorf("splitting pick item %s: %w", row.ID, err)
			}
		}
	}
	return nil
}

// completePickItemQuantities fills quantity/is_carton for the rows the
// unification step left behind (legacy values present but not positive, or no
// quantity information at all) and nulls the legacy fields so later code
// never reads stale values.
func completePickItemQuantities(tx *gorm.DB, now int64) error {
	var rows []pickItemRow
	if err := tx.Where("quantity IS NULL").Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		quantity := 1
		carton := false
		switch {
		case row.QuantityUnits != nil && row.QuantityBulk == nil:
			quantity = clampQuantity(*row.QuantityUnits)
		case row.QuantityBulk != nil && row.QuantityUnits == nil:
			quantity = clampQuantity(*row.QuantityBulk)
			carton = true
		}
		if err := rewriteUnified(tx, row.ID, quantity, carton, now); err != nil {
			return err
		}
	}
	return nil
}

// backfillPickListDefaults gives legacy lists an empty category filter and a
// disabled auto-add flag. Lists that already carry both fields see no write.
func backfillPickListDefaults(tx *gorm.DB, now int64) error {
	if err := tx.Model(&models.PickList{}).
		Where("categories IS NULL").
		Updates(map[string]any{"categories": dbtypes.StringList{}, "updated_at": now}).Error; err != nil {
		return err
	}
	return tx.Model(&models.PickList{}).
		Where("auto_add_new_products IS NULL").
		Updates(map[string]any{"auto_add_new_products": false, "updated_at": now}).Error
}

// normalizeReferences rewrites every product.category and pick list
// categories[] entry that is still a raw name into the canonical category id,
// creating categories as needed. Re-runnable: a normalized store produces no
// writes.
func normalizeReferences(tx *gorm.DB, now int64) error {
	resolver := refs.NewResolver(tx)

	type productRow struct {
		ID       string
		Category string
	}
	var products []productRow
	if err := tx.Model(&models.Product{}).
		Select("id", "category").
		Where("category IS NOT NULL AND category <> ''").
		Find(&products).Error; err != nil {
		return err
	}

	for _, p := range products {
		known, err := resolver.KnownCategoryID(p.Category)
		if err != nil {
			return err
		}
		if known {
			continue
		}
		id, err := resolver.Category(p.Category, true)
		if err != nil {
			return fmt.Errorf("normalizing product %s: %w", p.ID, err)
		}
		if err := tx.Model(&models.Product{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{"category": id, "updated_at": now}).Error; err != nil {
			return err
		}
	}

	var lists []models.PickList
	if err := tx.Where("categories IS NOT NULL").Find(&lists).Error; err != nil {
		return err
	}

	for _, list := range lists {
		changed := false
		rewritten := make(dbtypes.StringList, 0, len(list.Categories))
		for _, entry := range list.Categories {
			known, err := resolver.KnownCategoryID(entry)
			if err != nil {
				return err
			}
			if known {
				rewritten = append(rewritten, entry)
				continue
			}
			id, err := resolver.Category(entry, true)
			if err != nil {
				return fmt.Errorf("normalizing pick list %s: %w", list.ID, err)
			}
			rewritten = append(rewritten, id)
			changed = true
		}
		if !changed {
			continue
		}
		if err := tx.Model(&models.PickList{}).
			Where("id = ?", list.ID).
			Updates(map[string]any{"categories": rewritten, "updated_at": now}).Error; err != nil {
			return err
		}
	}
	return nil
}

func rewriteUnified(tx *gorm.DB, id string, quantity int, carton bool, now int64) error {
	return tx.Model(&models.PickItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":       quantity,
			"is_carton":      carton,
			"quantity_units": nil,
			"quantity_bulk":  nil,
			"updated_at":     now,
		}).Error
}

func clampQuantity(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func statusOrDefault(raw string) enums.PickItemStatus {
	if status, err := enums.ParsePickItemStatus(raw); err == nil {
		return status
	}
	return enums.PickItemStatusPending
}
