package transfer

import (
	"path"
	"strings"

	"github.com/openshelf/picklist-backend/pkg/enums"
)

// parsedFile is one CSV payload after structural parsing: normalized headers
// and one map per data row, keyed by header.
type parsedFile struct {
	name    string
	headers []string
	rows    []map[string]string
}

func (f parsedFile) hasHeader(name string) bool {
	for _, h := range f.headers {
		if h == name {
			return true
		}
	}
	return false
}

// isProductCentric reports whether the header row marks product data: a
// "category" column next to a "name" or "product_name" column. Such files are
// pooled into the combined product pass regardless of filename.
func (f parsedFile) isProductCentric() bool {
	return f.hasHeader("category") && (f.hasHeader("name") || f.hasHeader("product_name"))
}

// classifyByFileName falls back to filename hints for files whose headers do
// not identify them. Item hints are checked before list hints because both
// share the "pick" stem.
func classifyByFileName(fileName string) (enums.EntityType, bool) {
	base := strings.ToLower(path.Base(fileName))
	switch {
	case strings.Contains(base, "pickitem"),
		strings.Contains(base, "pick-item"),
		strings.Contains(base, "pick_item"):
		return enums.EntityPickItems, true
	case strings.Contains(base, "picklist"),
		strings.Contains(base, "pick-list"),
		strings.Contains(base, "pick_list"):
		return enums.EntityPickLists, true
	case strings.Contains(base, "area"):
		return enums.EntityAreas, true
	case strings.Contains(base, "categor"):
		return enums.EntityCategories, true
	case strings.Contains(base, "product"):
		return enums.EntityProducts, true
	default:
		return "", false
	}
}
