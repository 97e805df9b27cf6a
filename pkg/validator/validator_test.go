package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(signUpForm{
		Name:            "Budi",
		Email:           "budi@example.com",
		Password:        "Rahasia123",
		ConfirmPassword: "Rahasia123",
	})
	assert.NoError(t, err)
}

func TestValidate_Failure(t *testing.T) {
	err := Validate(signUpForm{
		Name:            "",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Equal(t, "must match Password", fields["ConfirmPassword"])

	assert.Contains(t, valErr.Error(), "field 'Email'")
}
