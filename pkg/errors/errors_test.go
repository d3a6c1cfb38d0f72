package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatsCodeAndMessage(t *testing.T) {
	err := New(CodeDuplicateName, "a product named \"milk\" already exists")
	if got := err.Error(); got != "DUPLICATE_NAME: a product named \"milk\" already exists" {
		t.Fatalf("unexpected error string: %s", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeInternal, cause, "insert failed")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeDuplicateBarcode, "barcode taken")
	wrapped := fmt.Errorf("creating product: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeDuplicateBarcode {
		t.Fatalf("expected DUPLICATE_BARCODE, got %s", typed.Code())
	}
}

func TestMetadataForConflictCodes(t *testing.T) {
	for _, code := range []Code{CodeDuplicateName, CodeDuplicateBarcode, CodeReferenceInUse} {
		meta := MetadataFor(code)
		if meta.HTTPStatus != http.StatusConflict {
			t.Fatalf("expected 409 for %s, got %d", code, meta.HTTPStatus)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}
