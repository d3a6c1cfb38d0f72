package catalog

import (
	"github.com/openshelf/picklist-backend/pkg/db/models"
)

// AreaDTO is the API-facing area shape.
type AreaDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func NewAreaDTO(area *models.Area) *AreaDTO {
	return &AreaDTO{
		ID:        area.ID,
		Name:      area.Name,
		CreatedAt: area.CreatedAt,
		UpdatedAt: area.UpdatedAt,
	}
}

// CategoryDTO is the API-facing category shape.
type CategoryDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func NewCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ProductDTO is the API-facing product shape. CategoryID carries the
// canonical category reference; legacy raw names never reach the API because
// the normalization pass runs before the server accepts traffic.
type ProductDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CategoryID   string  `json:"category_id,omitempty"`
	UnitType     string  `json:"unit_type"`
	BulkName     *string `json:"bulk_name,omitempty"`
	UnitsPerBulk *int    `json:"units_per_bulk,omitempty"`
	Barcode      *string `json:"barcode,omitempty"`
	Archived     bool    `json:"archived"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:           product.ID,
		Name:         product.Name,
		CategoryID:   product.Category,
		UnitType:     product.UnitType,
		BulkName:     product.BulkName,
		UnitsPerBulk: product.UnitsPerBulk,
		Barcode:      product.Barcode,
		Archived:     product.Archived,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

func NewAreaDTOs(rows []models.Area) []AreaDTO {
	out := make([]AreaDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewAreaDTO(&rows[i]))
	}
	return out
}

func NewCategoryDTOs(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCategoryDTO(&rows[i]))
	}
	return out
}

func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
