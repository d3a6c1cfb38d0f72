package dbtypes

import "testing"

func TestStringListScanNullIsNil(t *testing.T) {
	var l StringList
	if err := l.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if l != nil {
		t.Fatalf("expected nil list for NULL column, got %v", l)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	in := StringList{"cat-1", "cat-2"}
	val, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out StringList
	if err := out.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out) != 2 || out[0] != "cat-1" || out[1] != "cat-2" {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestStringListEmptyStaysEmptyNotNil(t *testing.T) {
	val, err := StringList{}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if val.(string) != "[]" {
		t.Fatalf("expected [] literal, got %q", val)
	}

	var out StringList
	if err := out.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out == nil {
		t.Fatal("expected non-nil empty list")
	}
}

func TestStringListContains(t *testing.T) {
	l := StringList{"a", "b"}
	if !l.Contains("a") || l.Contains("z") {
		t.Fatalf("contains misbehaved: %v", l)
	}
}
