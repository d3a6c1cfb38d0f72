package schema

import "testing"

func intPtr(v int) *int { return &v }

func TestClassifyPickItem(t *testing.T) {
	cases := []struct {
		name string
		row  pickItemRow
		want PickItemShape
	}{
		{"unified", pickItemRow{Quantity: intPtr(3)}, ShapeCurrent},
		{"unifiedWinsOverLegacy", pickItemRow{Quantity: intPtr(3), QuantityUnits: intPtr(2)}, ShapeCurrent},
		{"unitsOnly", pickItemRow{QuantityUnits: intPtr(2)}, ShapeLegacyUnits},
		{"bulkOnly", pickItemRow{QuantityBulk: intPtr(4)}, ShapeLegacyBulk},
		{"mixed", pickItemRow{QuantityUnits: intPtr(2), QuantityBulk: intPtr(3)}, ShapeLegacyMixed},
		{"zeroUnits", pickItemRow{QuantityUnits: intPtr(0)}, ShapeUnquantified},
		{"negativeBulk", pickItemRow{QuantityBulk: intPtr(-1)}, ShapeUnquantified},
		{"nothing", pickItemRow{}, ShapeUnquantified},
		{"zeroAndPositive", pickItemRow{QuantityUnits: intPtr(0), QuantityBulk: intPtr(5)}, ShapeLegacyBulk},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyPickItem(tc.row); got != tc.want {
				t.Fatalf("classifyPickItem(%+v) = %d, want %d", tc.row, got, tc.want)
			}
		})
	}
}
