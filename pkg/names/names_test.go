package names

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Clothing ":       "clothing",
		"Fresh   Produce":   "fresh produce",
		"DAIRY":             "dairy",
		"\tFrozen\nGoods  ": "frozen goods",
		"":                  "",
		"   ":               "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("   ") {
		t.Fatal("whitespace-only name should be empty")
	}
	if IsEmpty(" x ") {
		t.Fatal("non-empty name reported empty")
	}
}
