package request

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ProductID int    `json:"productId" validate:"required,gt=0"`
	ViewMode  string `json:"viewMode" validate:"omitempty,oneof=grid list"`
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"productId":3,"viewMode":"list"}`))

	var got sample
	require.NoError(t, DecodeJSON(r, &got))
	assert.Equal(t, 3, got.ProductID)
	assert.Equal(t, "list", got.ViewMode)
}

func TestDecodeJSONMalformed(t *testing.T) {
	for _, body := range []string{`{"productId":`, `{"productId":1,"extra":true}`, ``} {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		var got sample
		err := DecodeJSON(r, &got)
		assert.ErrorIs(t, err, ErrInvalidBody, "body %q", body)
	}
}

func TestDecodeJSONValidationUsesJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"productId":0,"viewMode":"table"}`))

	var got sample
	err := DecodeJSON(r, &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBody))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["productId"])
	assert.Equal(t, "must be one of grid list", verr.Fields["viewMode"])
}
