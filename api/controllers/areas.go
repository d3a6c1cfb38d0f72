package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/picklist-backend/api/responses"
	"github.com/openshelf/picklist-backend/api/validators"
	"github.com/openshelf/picklist-backend/internal/catalog"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

type createAreaRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type updateAreaRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

func ListAreas(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas, err := svc.ListAreas(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, areas)
	}
}

func GetArea(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		area, err := svc.GetArea(r.Context(), chi.URLParam(r, "areaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, area)
	}
}

func CreateArea(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAreaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		area, err := svc.CreateArea(r.Context(), catalog.CreateAreaInput{Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, area)
	}
}

func UpdateArea(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAreaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		area, err := svc.UpdateArea(r.Context(), chi.URLParam(r, "areaID"), catalog.UpdateAreaInput{Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, area)
	}
}

func DeleteArea(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteArea(r.Context(), chi.URLParam(r, "areaID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
