package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected payload: %#v", envelope.Data)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	cases := map[pkgerrors.Code]int{
		pkgerrors.CodeValidation:       400,
		pkgerrors.CodeNotFound:         404,
		pkgerrors.CodeDuplicateName:    409,
		pkgerrors.CodeDuplicateBarcode: 409,
		pkgerrors.CodeReferenceInUse:   409,
		pkgerrors.CodeStateConflict:    422,
		pkgerrors.CodeInternal:         500,
	}
	for code, wantStatus := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(code, "boom"))
		if rec.Code != wantStatus {
			t.Fatalf("code %s: status = %d, want %d", code, rec.Code, wantStatus)
		}
		var envelope types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if envelope.Error.Code != string(code) {
			t.Fatalf("error code = %q, want %q", envelope.Error.Code, code)
		}
	}
}

func TestWriteBlobSetsDisposition(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBlob(rec, "products.csv", "text/csv", []byte("name\n"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="products.csv"` {
		t.Fatalf("disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %q", got)
	}
}
