package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found maps to 404", "NOT_FOUND", http.StatusNotFound},
		{"invalid amount maps to 400", "INVALID_AMOUNT", http.StatusBadRequest},
		{"overpayment maps to 422", "OVERPAYMENT_REJECTED", http.StatusUnprocessableEntity},
		{"insufficient stock maps to 422", "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"concurrency conflict maps to 409", "CONCURRENCY_CONFLICT", http.StatusConflict},
		{"duplicate settlement maps to 409", "DUPLICATE_SETTLEMENT", http.StatusConflict},
		{"partial settlement write maps to 500", "SETTLEMENT_PERSISTENCE", http.StatusInternalServerError},
		{"unknown code defaults to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-123")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Sale not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
