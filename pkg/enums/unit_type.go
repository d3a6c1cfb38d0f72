package enums

// Default unit naming applied to imported and seeded products.
const (
	DefaultUnitType = "unit"
	DefaultBulkName = "carton"
)
