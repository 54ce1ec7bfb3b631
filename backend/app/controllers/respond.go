package controllers

import (
	"encoding/json"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/middleware"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	middleware.WriteJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid JSON body: " + err.Error())
	}
	return nil
}

// idParam reads a positive id from the first of the chi URL params or query
// parameters that is present.
func idParam(r *http.Request, names ...string) (uint, error) {
	for _, name := range names {
		raw := chi.URLParam(r, name)
		if raw == "" {
			raw = r.URL.Query().Get(name)
		}
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return 0, apperr.Validation(name + " must be a positive integer")
		}
		return uint(id), nil
	}
	return 0, apperr.Validation(names[0] + " is required")
}
