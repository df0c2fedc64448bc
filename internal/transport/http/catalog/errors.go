package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDuplicateSku, domain.KindConflict:
		return http.StatusConflict
	case domain.KindBrandNotFound, domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindSchemaMismatch, domain.KindInvalidOptionValue:
		return http.StatusUnprocessableEntity
	case domain.KindMediaStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	status := StatusOf(err)
	body := ErrorResponse{Kind: string(domain.KindStore), Message: "internal error"}

	var de *domain.Error
	if errors.As(err, &de) {
		body = ErrorResponse{Kind: string(de.Kind), Message: de.Message, Field: de.Field}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "status", status, "error", err)
		if de != nil && de.Kind == domain.KindStore {
			// transport causes stay in the log
			body.Field = ""
		}
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
