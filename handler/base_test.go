package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rvalenzuela/condo-reconciliation/entity"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: entity.NewValidationError("bad input"), want: http.StatusBadRequest},
		{name: "not found", err: &entity.NotFoundError{Entity: "house", ID: 3}, want: http.StatusNotFound},
		{name: "conflict", err: entity.NewConflictError("already confirmed"), want: http.StatusConflict},
		{name: "invariant", err: entity.NewAllocationInvariantError("no config"), want: http.StatusUnprocessableEntity},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"error"`)
		})
	}
}

func TestWriteErrorWrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("context"), entity.NewConflictError("case resolved"))
	writeError(rec, wrapped)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
