package transfer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/internal/refs"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/pkg/enums"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// runSummary accumulates counters, detail lines and touched types while an
// import run walks its passes. It is folded into one log entry at the end.
type runSummary struct {
	inserted int
	updated  int
	skipped  int
	errors   int
	details  []string
	types    map[enums.EntityType]struct{}
}

func newRunSummary() *runSummary {
	return &runSummary{types: map[enums.EntityType]struct{}{}}
}

func (s *runSummary) detail(format string, args ...any) {
	s.details = append(s.details, fmt.Sprintf(format, args...))
}

func (s *runSummary) touch(entityType enums.EntityType) {
	s.types[entityType] = struct{}{}
}

func (s *runSummary) selectedTypes() dbtypes.StringList {
	out := dbtypes.StringList{}
	for _, candidate := range enums.AllEntityTypes() {
		if _, ok := s.types[candidate]; ok {
			out = append(out, candidate.String())
		}
	}
	return out
}

// Import parses the uploaded files and reconciles them against the store.
// Structural parse failures throw before any write; everything downstream is
// reported through the returned log, of which exactly one is appended per run.
func (s *service) Import(ctx context.Context, files []File, opts ImportOptions) (*LogDTO, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}

	start := time.Now()
	ctx = s.logg.WithOperation(ctx, "import")

	parsed, fileNames, err := expandAndParse(files)
	if err != nil {
		s.metrics.IncFailure("import")
		return nil, err
	}

	summary := newRunSummary()

	var productPool []map[string]string
	byType := map[enums.EntityType][]parsedFile{}
	for _, file := range parsed {
		if file.isProductCentric() {
			productPool = append(productPool, file.rows...)
			summary.touch(enums.EntityProducts)
			continue
		}
		entityType, ok := classifyByFileName(file.name)
		if !ok {
			summary.detail("skipped file %q: unrecognized type", file.name)
			continue
		}
		if entityType == enums.EntityProducts {
			productPool = append(productPool, file.rows...)
			summary.touch(enums.EntityProducts)
			continue
		}
		byType[entityType] = append(byType[entityType], file)
		summary.touch(entityType)
	}

	// reference tables first so later passes can resolve against them
	if len(byType[enums.EntityAreas]) > 0 {
		s.runPass(ctx, summary, "areas", func(tx *gorm.DB) error {
			return importAreas(ctx, tx, byType[enums.EntityAreas], summary)
		})
	}
	if len(byType[enums.EntityCategories]) > 0 {
		s.runPass(ctx, summary, "categories", func(tx *gorm.DB) error {
			return importCategories(ctx, tx, byType[enums.EntityCategories], summary)
		})
	}
	if len(productPool) > 0 {
		s.runPass(ctx, summary, "products", func(tx *gorm.DB) error {
			return importProducts(ctx, tx, productPool, opts, summary)
		})
	}
	if len(byType[enums.EntityPickLists]) > 0 {
		s.runPass(ctx, summary, "pick lists", func(tx *gorm.DB) error {
			return importPickLists(ctx, tx, byType[enums.EntityPickLists], opts, summary)
		})
	}
	if len(byType[enums.EntityPickItems]) > 0 {
		s.runPass(ctx, summary, "pick items", func(tx *gorm.DB) error {
			return importPickItems(ctx, tx, byType[enums.EntityPickItems], summary)
		})
	}

	log := &models.ImportExportLog{
		ID:            uuid.NewString(),
		Type:          enums.TransferTypeImport,
		SelectedTypes: summary.selectedTypes(),
		Inserted:      summary.inserted,
		Updated:       summary.updated,
		Skipped:       summary.skipped,
		Errors:        summary.errors,
		Details:       dbtypes.StringList(summary.details),
		FileNames:     dbtypes.StringList(fileNames),
	}
	if err := s.appendLog(ctx, log); err != nil {
		s.metrics.IncFailure("import")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append import log")
	}

	s.metrics.ObserveDuration("import", time.Since(start))
	if summary.errors > 0 {
		s.metrics.IncFailure("import")
	} else {
		s.metrics.IncSuccess("import")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"inserted": summary.inserted,
		"skipped":  summary.skipped,
		"errors":   summary.errors,
	}), "import completed")

	return NewLogDTO(log), nil
}

// runPass executes one reconciliation pass in its own transaction. A failed
// pass rolls back atomically and is recorded as an error, never rethrown.
func (s *service) runPass(ctx context.Context, summary *runSummary, label string, fn func(tx *gorm.DB) error) {
	if err := s.dbClient.WithTx(ctx, fn); err != nil {
		summary.errors++
		summary.detail("%s pass failed: %v", label, err)
		s.logg.Error(ctx, "import pass failed", err)
	}
}

// expandAndParse unpacks archives and structurally parses every CSV. Any
// parse error aborts the whole import before a log is written.
func expandAndParse(files []File) ([]parsedFile, []string, error) {
	var parsed []parsedFile
	var fileNames []string

	for _, file := range files {
		fileNames = append(fileNames, file.Name)

		if isZip(file) {
			reader, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
			if err != nil {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
					fmt.Sprintf("reading archive %q", file.Name))
			}
			for _, entry := range reader.File {
				if entry.FileInfo().IsDir() {
					continue
				}
				rc, err := entry.Open()
				if err != nil {
					return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
						fmt.Sprintf("opening archive entry %q", entry.Name))
				}
				var buf bytes.Buffer
				_, copyErr := buf.ReadFrom(rc)
				closeErr := rc.Close()
				if copyErr != nil {
					return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, copyErr,
						fmt.Sprintf("reading archive entry %q", entry.Name))
				}
				if closeErr != nil {
					return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, closeErr,
						fmt.Sprintf("closing archive entry %q", entry.Name))
				}
				pf, err := parseCSV(entry.Name, buf.Bytes())
				if err != nil {
					return nil, nil, err
				}
				parsed = append(parsed, pf)
			}
			continue
		}

		pf, err := parseCSV(file.Name, file.Data)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, pf)
	}
	return parsed, fileNames, nil
}

func isZip(file File) bool {
	if strings.HasSuffix(strings.ToLower(file.Name), ".zip") {
		return true
	}
	return bytes.HasPrefix(file.Data, zipMagic)
}

// parseCSV reads the whole file, normalizing headers to lowercase trimmed
// form. Structural errors (malformed quoting, ragged rows) are fatal.
func parseCSV(fileName string, data []byte) (parsedFile, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return parsedFile{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("parsing %q", fileName))
	}
	if len(records) == 0 {
		return parsedFile{name: fileName}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return parsedFile{name: fileName, headers: headers, rows: rows}, nil
}

// importProducts is the pooled product pass: all product-centric rows across
// every uploaded file reconcile in one transaction.
func importProducts(ctx context.Context, tx *gorm.DB, rows []map[string]string, opts ImportOptions, summary *runSummary) error {
	resolver := refs.NewResolver(tx)

	// pre-create referenced categories so per-row resolution never misses
	seenCategories := map[string]struct{}{}
	for _, row := range rows {
		raw := row["category"]
		normalized := names.Normalize(raw)
		if normalized == "" {
			continue
		}
		if _, ok := seenCategories[normalized]; ok {
			continue
		}
		seenCategories[normalized] = struct{}{}

		if _, err := resolver.Category(raw, false); err == nil {
			continue
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return err
		}
		if !opts.AllowAutoCreateMissing {
			continue
		}
		if _, err := resolver.Category(raw, true); err != nil {
			return err
		}
		summary.detail("created category %q", strings.TrimSpace(raw))
	}

	type productRow struct {
		ID      string
		Name    string
		Barcode *string
	}
	var existing []productRow
	if err := tx.Model(&models.Product{}).Select("id", "name", "barcode").Find(&existing).Error; err != nil {
		return err
	}
	knownNames := map[string]struct{}{}
	knownBarcodes := map[string]struct{}{}
	for _, p := range existing {
		knownNames[names.Normalize(p.Name)] = struct{}{}
		if p.Barcode != nil && *p.Barcode != "" {
			knownBarcodes[*p.Barcode] = struct{}{}
		}
	}

	for _, row := range rows {
		displayName := row["product_name"]
		if displayName == "" {
			displayName = row["name"]
		}
		displayName = strings.TrimSpace(displayName)
		normalized := names.Normalize(displayName)
		if normalized == "" {
			summary.skipped++
			summary.detail("skipped product row: empty name")
			continue
		}
		if _, ok := knownNames[normalized]; ok {
			summary.skipped++
			summary.detail("skipped duplicate product %q", displayName)
			continue
		}

		categoryID := ""
		if rawCategory := row["category"]; names.Normalize(rawCategory) != "" {
			id, err := resolver.Category(rawCategory, opts.AllowAutoCreateMissing)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					summary.skipped++
					summary.detail("skipped product %q: category %q not found", displayName, strings.TrimSpace(rawCategory))
					continue
				}
				return err
			}
			categoryID = id
		}

		var barcode *string
		if raw := row["barcode"]; raw != "" {
			if _, taken := knownBarcodes[raw]; taken {
				summary.detail("barcode %q already in use, created %q without it", raw, displayName)
			} else {
				barcode = &raw
			}
		}

		product := models.Product{
			ID:       uuid.NewString(),
			Name:     displayName,
			Category: categoryID,
			UnitType: valueOrDefault(row["unit_type"], enums.DefaultUnitType),
			Barcode:  barcode,
			Archived: parseBool(row["archived"]),
		}
		bulkName := valueOrDefault(row["bulk_name"], enums.DefaultBulkName)
		product.BulkName = &bulkName
		if raw := row["units_per_bulk"]; raw != "" {
			if parsedInt, err := strconv.Atoi(raw); err == nil && parsedInt > 0 {
				product.UnitsPerBulk = &parsedInt
			}
		}

		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("inserting product %q: %w", displayName, err)
		}
		knownNames[normalized] = struct{}{}
		if barcode != nil {
			knownBarcodes[*barcode] = struct{}{}
		}
		summary.inserted++
		summary.detail("created product %q", displayName)
	}
	return nil
}

// importAreas and importCategories are name-keyed dedupe inserts.
func importAreas(ctx context.Context, tx *gorm.DB, files []parsedFile, summary *runSummary) error {
	return importNamedRows(ctx, tx, files, summary, "area",
		func() (map[string]struct{}, error) {
			return loadNormalizedNames(tx, &models.Area{})
		},
		func(name string) error {
			return tx.Create(&models.Area{ID: uuid.NewString(), Name: name}).Error
		})
}

func importCategories(ctx context.Context, tx *gorm.DB, files []parsedFile, summary *runSummary) error {
	return importNamedRows(ctx, tx, files, summary, "category",
		func() (map[string]struct{}, error) {
			return loadNormalizedNames(tx, &models.Category{})
		},
		func(name string) error {
			return tx.Create(&models.Category{ID: uuid.NewString(), Name: name}).Error
		})
}

func importNamedRows(_ context.Context, _ *gorm.DB, files []parsedFile, summary *runSummary, kind string,
	loadExisting func() (map[string]struct{}, error), insert func(name string) error) error {
	if len(files) == 0 {
		return nil
	}

	known, err := loadExisting()
	if err != nil {
		return err
	}
	for _, file := range files {
		for _, row := range file.rows {
			name := strings.TrimSpace(row["name"])
			normalized := names.Normalize(name)
			if normalized == "" {
				summary.skipped++
				summary.detail("skipped %s row in %q: empty name", kind, file.name)
				continue
			}
			if _, ok := known[normalized]; ok {
				summary.skipped++
				summary.detail("skipped duplicate %s %q", kind, name)
				continue
			}
			if err := insert(name); err != nil {
				return fmt.Errorf("inserting %s %q: %w", kind, name, err)
			}
			known[normalized] = struct{}{}
			summary.inserted++
			summary.detail("created %s %q", kind, name)
		}
	}
	return nil
}

func loadNormalizedNames(tx *gorm.DB, model any) (map[string]struct{}, error) {
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

// importPickLists dedupes on the exported id and resolves area/category
// references by name.
func importPickLists(_ context.Context, tx *gorm.DB, files []parsedFile, opts ImportOptions, summary *runSummary) error {
	if len(files) == 0 {
		return nil
	}

	resolver := refs.NewResolver(tx)

	var ids []string
	if err := tx.Model(&models.PickList{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}

	for _, file := range files {
		for _, row := range file.rows {
			id := row["id"]
			if id == "" {
				id = uuid.NewString()
			} else if _, ok := known[id]; ok {
				summary.skipped++
				summary.detail("skipped duplicate pick list %q", id)
				continue
			}

			areaID, err := resolver.Area(row["area"], opts.AllowAutoCreateMissing)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil {
					summary.skipped++
					summary.detail("skipped pick list %q: %s", id, typed.Message())
					continue
				}
				return err
			}

			categories := dbtypes.StringList{}
			for _, entry := range splitList(row["categories"]) {
				categoryID, err := resolver.Category(entry, opts.AllowAutoCreateMissing)
				if err != nil {
					if typed := pkgerrors.As(err); typed != nil {
						summary.detail("pick list %q: dropped category %q (%s)", id, entry, typed.Message())
						continue
					}
					return err
				}
				if !categories.Contains(categoryID) {
					categories = append(categories, categoryID)
				}
			}

			list := models.PickList{
				ID:                 id,
				AreaID:             areaID,
				Categories:         categories,
				AutoAddNewProducts: parseBool(row["auto_add_new_products"]),
			}
			if notes := row["notes"]; notes != "" {
				list.Notes = &notes
			}
			if raw := row["completed_at"]; raw != "" {
				if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
					list.CompletedAt = &ts
				}
			}

			if err := tx.Create(&list).Error; err != nil {
				return fmt.Errorf("inserting pick list %q: %w", id, err)
			}
			known[id] = struct{}{}
			summary.inserted++
			summary.detail("created pick list %q", id)
		}
	}
	return nil
}

// importPickItems requires the parent list (by exported id) and the product
// (by name or id) to already exist; unresolvable rows are skipped.
func importPickItems(_ context.Context, tx *gorm.DB, files []parsedFile, summary *runSummary) error {
	if len(files) == 0 {
		return nil
	}

	var listIDs []string
	if err := tx.Model(&models.PickList{}).Pluck("id", &listIDs).Error; err != nil {
		return err
	}
	knownLists := make(map[string]struct{}, len(listIDs))
	for _, id := range listIDs {
		knownLists[id] = struct{}{}
	}

	type productRow struct {
		ID   string
		Name string
	}
	var products []productRow
	if err := tx.Model(&models.Product{}).Select("id", "name").Find(&products).Error; err != nil {
		return err
	}
	productIDs := make(map[string]struct{}, len(products))
	productsByName := make(map[string]string, len(products))
	for _, p := range products {
		productIDs[p.ID] = struct{}{}
		normalized := names.Normalize(p.Name)
		if _, ok := productsByName[normalized]; !ok && normalized != "" {
			productsByName[normalized] = p.ID
		}
	}

	for _, file := range files {
		for _, row := range file.rows {
			listID := row["pick_list"]
			if _, ok := knownLists[listID]; !ok {
				summary.skipped++
				summary.detail("skipped pick item in %q: unknown pick list %q", file.name, listID)
				continue
			}

			productRef := row["product"]
			productID := ""
			if _, ok := productIDs[productRef]; ok {
				productID = productRef
			} else if id, ok := productsByName[names.Normalize(productRef)]; ok {
				productID = id
			} else {
				summary.skipped++
				summary.detail("skipped pick item in %q: unknown product %q", file.name, productRef)
				continue
			}

			quantity := 1
			if raw := row["quantity"]; raw != "" {
				if parsedInt, err := strconv.Atoi(raw); err == nil && parsedInt > 0 {
					quantity = parsedInt
				}
			}
			status := enums.PickItemStatusPending
			if parsedStatus, err := enums.ParsePickItemStatus(row["status"]); err == nil {
				status = parsedStatus
			}

			item := models.PickItem{
				ID:         uuid.NewString(),
				PickListID: listID,
				ProductID:  productID,
				Quantity:   quantity,
				IsCarton:   parseBool(row["is_carton"]),
				Status:     status,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("inserting pick item: %w", err)
			}
			summary.inserted++
		}
	}
	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func valueOrDefault(raw, fallback string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return fallback
}
