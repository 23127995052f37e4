package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ciclone-ptc/ciclone/internal/common"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the error envelope used by every endpoint.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// writeServiceError maps sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "dados invalidos")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "credenciais invalidas")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "nao encontrado")
	case errors.Is(err, common.ErrNoEligibleRecipient):
		writeError(w, http.StatusConflict, "nenhuma conta apta a receber creditos")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "refresh token expirado")
	default:
		writeError(w, http.StatusInternalServerError, "erro interno")
	}
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
