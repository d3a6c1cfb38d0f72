package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/picklist-backend/api/responses"
	"github.com/openshelf/picklist-backend/api/validators"
	"github.com/openshelf/picklist-backend/internal/catalog"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Category     string  `json:"category" validate:"required,min=1"`
	UnitType     string  `json:"unit_type" validate:"omitempty,max=50"`
	BulkName     *string `json:"bulk_name" validate:"omitempty,max=50"`
	UnitsPerBulk *int    `json:"units_per_bulk" validate:"omitempty,gt=0"`
	Barcode      *string `json:"barcode" validate:"omitempty,max=100"`
}

type updateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category     *string `json:"category" validate:"omitempty,min=1"`
	UnitType     *string `json:"unit_type" validate:"omitempty,max=50"`
	BulkName     *string `json:"bulk_name" validate:"omitempty,max=50"`
	UnitsPerBulk *int    `json:"units_per_bulk" validate:"omitempty,gt=0"`
	Barcode      *string `json:"barcode" validate:"omitempty,max=100"`
}

type archiveProductRequest struct {
	Archived bool `json:"archived"`
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeArchived := r.URL.Query().Get("include_archived") == "true"
		products, err := svc.ListProducts(r.Context(), includeArchived)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:         req.Name,
			Category:     req.Category,
			UnitType:     req.UnitType,
			BulkName:     req.BulkName,
			UnitsPerBulk: req.UnitsPerBulk,
			Barcode:      req.Barcode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), catalog.UpdateProductInput{
			Name:         req.Name,
			Category:     req.Category,
			UnitType:     req.UnitType,
			BulkName:     req.BulkName,
			UnitsPerBulk: req.UnitsPerBulk,
			Barcode:      req.Barcode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ArchiveProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req archiveProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.ArchiveProduct(r.Context(), chi.URLParam(r, "productID"), req.Archived)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
