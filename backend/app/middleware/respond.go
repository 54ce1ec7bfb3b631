package middleware

import (
	"encoding/json"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/dto"
	"net/http"

	"github.com/rs/zerolog"
)

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError renders err as {"detail": ...}. Server-side failures are logged
// with the request logger; their cause is never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	code := apperr.CodeOf(err)
	l := zerolog.Ctx(r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		l.Error().Err(err).Str("code", code).Msg("request failed")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		l.Debug().Err(err).Str("code", code).Msg("request rejected")
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, dto.ErrorResponse{Detail: apperr.Message(err), Code: code})
}
