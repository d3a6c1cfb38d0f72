package schema

// PickItemShape discriminates the historical pick item layouts so every
// migration branch is an explicit, testable case instead of ad hoc field
// sniffing.
type PickItemShape int

const (
	// ShapeCurrent already carries the unified quantity/is_carton pair.
	ShapeCurrent PickItemShape = iota
	// ShapeLegacyUnits has only a positive quantity_units.
	ShapeLegacyUnits
	// ShapeLegacyBulk has only a positive quantity_bulk.
	ShapeLegacyBulk
	// ShapeLegacyMixed has both legacy fields positive; unification splits it
	// into a units row and a new carton row.
	ShapeLegacyMixed
	// ShapeUnquantified has no usable quantity anywhere; completion assigns
	// the minimum valid quantity.
	ShapeUnquantified
)

// pickItemRow is the nullable scan target the engine reads raw rows into.
// The clean model can't represent "quantity missing", this can.
type pickItemRow struct {
	ID            string `gorm:"column:id"`
	PickListID    string `gorm:"column:pick_list_id"`
	ProductID     string `gorm:"column:product_id"`
	Quantity      *int   `gorm:"column:quantity"`
	IsCarton      *bool  `gorm:"column:is_carton"`
	Status        string `gorm:"column:status"`
	QuantityUnits *int   `gorm:"column:quantity_units"`
	QuantityBulk  *int   `gorm:"column:quantity_bulk"`
	CreatedAt     int64  `gorm:"column:created_at"`
	UpdatedAt     int64  `gorm:"column:updated_at"`
}

func (pickItemRow) TableName() string { return "pick_items" }

func classifyPickItem(row pickItemRow) PickItemShape {
	if row.Quantity != nil {
		return ShapeCurrent
	}
	units := row.QuantityUnits != nil && *row.QuantityUnits > 0
	bulk := row.QuantityBulk != nil && *row.QuantityBulk > 0
	switch {
	case units && bulk:
		return ShapeLegacyMixed
	case units:
		return ShapeLegacyUnits
	case bulk:
		return ShapeLegacyBulk
	default:
		return ShapeUnquantified
	}
}
