package picklists

import (
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/enums"
)

// PickListDTO is the API-facing pick list shape.
type PickListDTO struct {
	ID                 string        `json:"id"`
	AreaID             string        `json:"area_id"`
	Categories         []string      `json:"categories"`
	AutoAddNewProducts bool          `json:"auto_add_new_products"`
	Notes              *string       `json:"notes,omitempty"`
	CompletedAt        *int64        `json:"completed_at,omitempty"`
	CreatedAt          int64         `json:"created_at"`
	UpdatedAt          int64         `json:"updated_at"`
	Items              []PickItemDTO `json:"items,omitempty"`
}

// PickItemDTO is the API-facing pick item shape.
type PickItemDTO struct {
	ID         string               `json:"id"`
	PickListID string               `json:"pick_list_id"`
	ProductID  string               `json:"product_id"`
	Quantity   int                  `json:"quantity"`
	IsCarton   bool                 `json:"is_carton"`
	Status     enums.PickItemStatus `json:"status"`
	CreatedAt  int64                `json:"created_at"`
	UpdatedAt  int64                `json:"updated_at"`
}

func NewPickListDTO(list *models.PickList, items []models.PickItem) *PickListDTO {
	dto := &PickListDTO{
		ID:                 list.ID,
		AreaID:             list.AreaID,
		Categories:         list.Categories,
		AutoAddNewProducts: list.AutoAddNewProducts,
		Notes:              list.Notes,
		CompletedAt:        list.CompletedAt,
		CreatedAt:          list.CreatedAt,
		UpdatedAt:          list.UpdatedAt,
	}
	if dto.Categories == nil {
		dto.Categories = []string{}
	}
	for i := range items {
		dto.Items = append(dto.Items, *NewPickItemDTO(&items[i]))
	}
	return dto
}

func NewPickItemDTO(item *models.PickItem) *PickItemDTO {
	return &PickItemDTO{
		ID:         item.ID,
		PickListID: item.PickListID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		IsCarton:   item.IsCarton,
		Status:     item.Status,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func NewPickListDTOs(rows []models.PickList) []PickListDTO {
	out := make([]PickListDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPickListDTO(&rows[i], nil))
	}
	return out
}
