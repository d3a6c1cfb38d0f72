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
	"github.com/openshelf/picklist-backend/pkg/db/models"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/pkg/enums"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// exportFileNames are the fixed per-type CSV names, loose or inside the ZIP.
var exportFileNames = map[enums.EntityType]string{
	enums.EntityAreas:      "areas.csv",
	enums.EntityCategories: "categories.csv",
	enums.EntityProducts:   "products.csv",
	enums.EntityPickLists:  "picklists.csv",
	enums.EntityPickItems:  "pickitems.csv",
}

type exportFile struct {
	name string
	data []byte
	rows int
}

// Export serializes the selected collections with foreign keys resolved to
// display names. One type yields a bare CSV, several are bundled into a ZIP.
// An empty selection throws before any log is written.
func (s *service) Export(ctx context.Context, selected []string) (*ExportResult, error) {
	if len(selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no data types selected")
	}

	var types []enums.EntityType
	seen := map[enums.EntityType]struct{}{}
	for _, raw := range selected {
		entityType, err := enums.ParseEntityType(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if _, ok := seen[entityType]; ok {
			continue
		}
		seen[entityType] = struct{}{}
		types = append(types, entityType)
	}

	start := time.Now()
	conn := s.dbClient.DB().WithContext(ctx)
	ctx = s.logg.WithOperation(ctx, "export")

	names, err := loadNameIndex(conn)
	if err != nil {
		s.metrics.IncFailure("export")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load export name index")
	}

	var (
		files   []exportFile
		details []string
		total   int
	)
	for _, entityType := range types {
		header, rows, err := buildExportRows(conn, entityType, names)
		if err != nil {
			s.metrics.IncFailure("export")
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("export %s", entityType))
		}
		data, err := encodeCSV(header, rows)
		if err != nil {
			s.metrics.IncFailure("export")
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s", entityType))
		}
		files = append(files, exportFile{name: exportFileNames[entityType], data: data, rows: len(rows)})
		details = append(details, fmt.Sprintf("exported %d %s", len(rows), entityType))
		total += len(rows)
	}

	result := &ExportResult{}
	if len(files) == 1 {
		result.FileName = files[0].name
		result.ContentType = "text/csv"
		result.Data = files[0].data
	} else {
		bundled, err := bundleZip(files)
		if err != nil {
			s.metrics.IncFailure("export")
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bundle export archive")
		}
		result.FileName = fmt.Sprintf("picklist-export-%d.zip", time.Now().UnixMilli())
		result.ContentType = "application/zip"
		result.Data = bundled
	}

	fileNames := make(dbtypes.StringList, 0, len(files))
	for _, f := range files {
		fileNames = append(fileNames, f.name)
	}
	selectedTypes := make(dbtypes.StringList, 0, len(types))
	for _, t := range types {
		selectedTypes = append(selectedTypes, t.String())
	}
	log := &models.ImportExportLog{
		ID:            uuid.NewString(),
		Type:          enums.TransferTypeExport,
		SelectedTypes: selectedTypes,
		Inserted:      total,
		Details:       details,
		FileNames:     fileNames,
	}
	if err := s.appendLog(ctx, log); err != nil {
		s.metrics.IncFailure("export")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append export log")
	}

	s.metrics.ObserveDuration("export", time.Since(start))
	s.metrics.IncSuccess("export")
	s.logg.Info(s.logg.WithField(ctx, "rows", total), "export completed")

	result.Log = NewLogDTO(log)
	return result, nil
}

// nameIndex maps entity ids to display names for foreign-key resolution.
type nameIndex struct {
	categories map[string]string
	areas      map[string]string
	products   map[string]string
}

func loadNameIndex(conn *gorm.DB) (*nameIndex, error) {
	idx := &nameIndex{
		categories: map[string]string{},
		areas:      map[string]string{},
		products:   map[string]string{},
	}

	type row struct {
		ID   string
		Name string
	}
	var rows []row
	if err := conn.Model(&models.Category{}).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		idx.categories[r.ID] = r.Name
	}
	rows = nil
	if err := conn.Model(&models.Area{}).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		idx.areas[r.ID] = r.Name
	}
	rows = nil
	if err := conn.Model(&models.Product{}).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		idx.products[r.ID] = r.Name
	}
	return idx, nil
}

// displayOrRaw keeps the stored value when it does not resolve, so legacy raw
// names survive an export unchanged.
func displayOrRaw(index map[string]string, ref string) string {
	if name, ok := index[ref]; ok {
		return name
	}
	return ref
}

func buildExportRows(conn *gorm.DB, entityType enums.EntityType, names *nameIndex) ([]string, [][]string, error) {
	switch entityType {
	case enums.EntityAreas:
		var rows []models.Area
		if err := conn.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		out := make([][]string, 0, len(rows))
		for _, a := range rows {
			out = append(out, []string{a.Name})
		}
		return []string{"name"}, out, nil

	case enums.EntityCategories:
		var rows []models.Category
		if err := conn.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		out := make([][]string, 0, len(rows))
		for _, c := range rows {
			out = append(out, []string{c.Name})
		}
		return []string{"name"}, out, nil

	case enums.EntityProducts:
		var rows []models.Product
		if err := conn.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"name", "category", "unit_type", "bulk_name", "units_per_bulk", "barcode", "archived"}
		out := make([][]string, 0, len(rows))
		for _, p := range rows {
			category := ""
			if p.Category != "" {
				category = displayOrRaw(names.categories, p.Category)
			}
			out = append(out, []string{
				p.Name,
				category,
				p.UnitType,
				strPtr(p.BulkName),
				intPtr(p.UnitsPerBulk),
				strPtr(p.Barcode),
				strconv.FormatBool(p.Archived),
			})
		}
		return header, out, nil

	case enums.EntityPickLists:
		var rows []models.PickList
		if err := conn.Order("created_at ASC").Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"id", "area", "categories", "auto_add_new_products", "notes", "completed_at"}
		out := make([][]string, 0, len(rows))
		for _, l := range rows {
			categoryNames := make([]string, 0, len(l.Categories))
			for _, entry := range l.Categories {
				categoryNames = append(categoryNames, displayOrRaw(names.categories, entry))
			}
			completed := ""
			if l.CompletedAt != nil {
				completed = strconv.FormatInt(*l.CompletedAt, 10)
			}
			out = append(out, []string{
				l.ID,
				displayOrRaw(names.areas, l.AreaID),
				strings.Join(categoryNames, "|"),
				strconv.FormatBool(l.AutoAddNewProducts),
				strPtr(l.Notes),
				completed,
			})
		}
		return header, out, nil

	case enums.EntityPickItems:
		var rows []models.PickItem
		if err := conn.Order("created_at ASC").Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"pick_list", "product", "quantity", "is_carton", "status"}
		out := make([][]string, 0, len(rows))
		for _, i := range rows {
			out = append(out, []string{
				i.PickListID,
				displayOrRaw(names.products, i.ProductID),
				strconv.Itoa(i.Quantity),
				strconv.FormatBool(i.IsCarton),
				i.Status.String(),
			})
		}
		return header, out, nil
	}
	return nil, nil, fmt.Errorf("unsupported entity type %q", entityType)
}

func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func bundleZip(files []exportFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var errs error
	for _, f := range files {
		entry, err := zw.Create(f.name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := entry.Write(f.data); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	errs = multierr.Append(errs, zw.Close())
	if errs != nil {
		return nil, errs
	}
	return buf.Bytes(), nil
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
