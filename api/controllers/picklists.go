package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/picklist-backend/api/responses"
	"github.com/openshelf/picklist-backend/api/validators"
	"github.com/openshelf/picklist-backend/internal/picklists"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

type createPickListRequest struct {
	Area               string   `json:"area" validate:"required,min=1"`
	Categories         []string `json:"categories" validate:"omitempty,dive,min=1"`
	AutoAddNewProducts bool     `json:"auto_add_new_products"`
	Notes              *string  `json:"notes" validate:"omitempty,max=2000"`
}

type updatePickListRequest struct {
	Categories         *[]string `json:"categories" validate:"omitempty,dive,min=1"`
	AutoAddNewProducts *bool     `json:"auto_add_new_products"`
	Notes              *string   `json:"notes" validate:"omitempty,max=2000"`
}

type addPickItemRequest struct {
	Product  string `json:"product" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	IsCarton bool   `json:"is_carton"`
}

type adjustQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type setItemStatusRequest struct {
	Status string `json:"status" validate:"required,min=1"`
}

func ListPickLists(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openOnly := r.URL.Query().Get("open") == "true"
		lists, err := svc.ListPickLists(r.Context(), openOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lists)
	}
}

func GetPickList(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.GetPickList(r.Context(), chi.URLParam(r, "listID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreatePickList(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPickListRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.CreatePickList(r.Context(), picklists.CreatePickListInput{
			AreaID:             req.Area,
			Categories:         req.Categories,
			AutoAddNewProducts: req.AutoAddNewProducts,
			Notes:              req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, list)
	}
}

func UpdatePickList(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePickListRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.UpdatePickList(r.Context(), chi.URLParam(r, "listID"), picklists.UpdatePickListInput{
			Categories:         req.Categories,
			AutoAddNewProducts: req.AutoAddNewProducts,
			Notes:              req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CompletePickList(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.CompletePickList(r.Context(), chi.URLParam(r, "listID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func DeletePickList(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePickList(r.Context(), chi.URLParam(r, "listID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddPickItem(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPickItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AddItem(r.Context(), chi.URLParam(r, "listID"), picklists.AddItemInput{
			ProductID: req.Product,
			Quantity:  req.Quantity,
			IsCarton:  req.IsCarton,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdjustPickItemQuantity(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AdjustQuantity(r.Context(), chi.URLParam(r, "itemID"), req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func SetPickItemStatus(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setItemStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.SetItemStatus(r.Context(), chi.URLParam(r, "itemID"), req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func RemovePickItem(svc picklists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
