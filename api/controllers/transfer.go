package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/picklist-backend/api/responses"
	"github.com/openshelf/picklist-backend/internal/transfer"
	"github.com/openshelf/picklist-backend/pkg/config"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

// ExportEntities streams the selected entity types as a CSV or ZIP download.
// Types come from the "types" query parameter, comma separated.
func ExportEntities(svc transfer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var selected []string
		for _, raw := range strings.Split(r.URL.Query().Get("types"), ",") {
			if trimmed := strings.TrimSpace(raw); trimmed != "" {
				selected = append(selected, trimmed)
			}
		}

		result, err := svc.Export(r.Context(), selected)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBlob(w, result.FileName, result.ContentType, result.Data)
	}
}

// ImportEntities accepts a multipart upload of CSV and ZIP files under the
// "files" field and answers with the log entry of the run.
func ImportEntities(svc transfer.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.Import.MaxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload"))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		var files []transfer.File
		for _, header := range r.MultipartForm.File["files"] {
			part, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file"))
				return
			}
			data, err := io.ReadAll(part)
			_ = part.Close()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file"))
				return
			}
			files = append(files, transfer.File{Name: header.Filename, Data: data})
		}

		opts := transfer.DefaultImportOptions(cfg.Import)
		if r.URL.Query().Get("auto_create") == "false" {
			opts.AllowAutoCreateMissing = false
		}

		log, err := svc.Import(r.Context(), files, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, log)
	}
}

func ListTransferLogs(svc transfer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := svc.ListLogs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, logs)
	}
}

func GetTransferLog(svc transfer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log, err := svc.GetLog(r.Context(), chi.URLParam(r, "logID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, log)
	}
}

// DownloadTransferLog serves one log entry as a standalone JSON file.
func DownloadTransferLog(svc transfer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log, err := svc.GetLog(r.Context(), chi.URLParam(r, "logID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := json.MarshalIndent(log, "", "  ")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding transfer log"))
			return
		}
		responses.WriteBlob(w, transfer.LogFileName(log), "application/json", data)
	}
}
