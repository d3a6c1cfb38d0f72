package enums

import "fmt"

// TransferType distinguishes import and export log entries.
type TransferType string

const (
	TransferTypeImport TransferType = "import"
	TransferTypeExport TransferType = "export"
)

// IsValid reports whether the value matches the canonical transfer type enum.
func (t TransferType) IsValid() bool {
	return t == TransferTypeImport || t == TransferTypeExport
}

// EntityType names the collections the transfer engine can move.
type EntityType string

const (
	EntityAreas      EntityType = "areas"
	EntityCategories EntityType = "categories"
	EntityProducts   EntityType = "products"
	EntityPickLists  EntityType = "pick-lists"
	EntityPickItems  EntityType = "pick-items"
)

var validEntityTypes = []EntityType{
	EntityAreas,
	EntityCategories,
	EntityProducts,
	EntityPickLists,
	EntityPickItems,
}

// AllEntityTypes returns the exportable collections in their canonical order.
func AllEntityTypes() []EntityType {
	out := make([]EntityType, len(validEntityTypes))
	copy(out, validEntityTypes)
	return out
}

// ParseEntityType converts the raw string to EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}

func (t EntityType) String() string {
	return string(t)
}
