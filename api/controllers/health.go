package controllers

import (
	"net/http"

	"github.com/openshelf/picklist-backend/api/responses"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, store db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
