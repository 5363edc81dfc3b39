package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rvalenzuela/condo-reconciliation/entity"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResponse wraps listings with the total row count.
type PagedResponse struct {
	Status string      `json:"status"`
	Total  int         `json:"total"`
	Data   interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the domain error kinds onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *entity.ValidationError
		notFoundErr   *entity.NotFoundError
		conflictErr   *entity.ConflictError
		invariantErr  *entity.AllocationInvariantError
	)
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		code = http.StatusNotFound
	case errors.As(err, &conflictErr):
		code = http.StatusConflict
	case errors.As(err, &invariantErr):
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, APIResponse{Status: "error", Message: err.Error()})
}
