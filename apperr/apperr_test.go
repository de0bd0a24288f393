package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{name: "not found", err: NewNotFound("product not found"), want: http.StatusNotFound},
		{name: "validation", err: NewValidation("bad"), want: http.StatusBadRequest},
		{name: "unauthorized", err: NewUnauthorized("missing token"), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewForbidden("invalid token"), want: http.StatusForbidden},
		{name: "upstream", err: Upstream("failed to fetch products", errors.New("boom")), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestFrom(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("plain error becomes internal", func(t *testing.T) {
		e := From(cause)
		assert.Equal(t, Internal, e.Kind)
		assert.Equal(t, "internal error", e.Message())
		assert.ErrorIs(t, e, cause)
	})

	t.Run("wrapped app error is found", func(t *testing.T) {
		wrapped := fmt.Errorf("list: %w", NewNotFound("categories not found"))
		e := From(wrapped)
		assert.Equal(t, NotFound, e.Kind)
		assert.Equal(t, "categories not found", e.Message())
		assert.True(t, IsKind(wrapped, NotFound))
	})

	t.Run("message never carries the cause", func(t *testing.T) {
		e := Upstream("failed to add review", cause)
		assert.Equal(t, "failed to add review", e.Message())
		assert.Contains(t, e.Error(), "connection reset")
	})
}
