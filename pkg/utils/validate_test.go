package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `validate:"required,email"`
	Title string `validate:"required,min=2"`
	Price int64  `validate:"gt=0"`
}

func TestFormatValidationError(t *testing.T) {
	err := validator.New().Struct(sample{Email: "not-an-email", Title: "x"})
	require.Error(t, err)

	fields := FormatValidationError(err)

	assert.Equal(t, "email must be a valid email", fields["email"])
	assert.Equal(t, "title must be at least 2 characters", fields["title"])
	assert.Equal(t, "price must be greater than 0", fields["price"])
}

func TestFormatValidationError_Required(t *testing.T) {
	err := validator.New().Struct(sample{Price: 10, Title: "ok"})
	require.Error(t, err)

	fields := FormatValidationError(err)

	assert.Equal(t, "email is required", fields["email"])
	assert.Len(t, fields, 1)
}
