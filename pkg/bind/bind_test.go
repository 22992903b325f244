package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adjustStock struct {
	Delta int `json:"delta" validate:"required"`
}

func TestJSON(t *testing.T) {
	var in adjustStock
	errs, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"delta":-2}`)), &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, -2, in.Delta)
}

func TestJSONValidationErrors(t *testing.T) {
	var in adjustStock
	errs, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"delta":0}`)), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "delta")
}

func TestJSONMalformedAndEmpty(t *testing.T) {
	var in adjustStock
	_, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"delta":`)), &in)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = JSON(httptest.NewRequest("POST", "/", strings.NewReader(``)), &in)
	assert.ErrorIs(t, err, ErrEmptyBody)
}
