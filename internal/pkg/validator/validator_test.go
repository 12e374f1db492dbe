package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Start    string `json:"start" validate:"omitempty,date"`
	Rate     string `json:"rate" validate:"omitempty,numeric"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
}

func TestValidate(t *testing.T) {
	errs := Validate(sample{Name: "toolong", Email: "nope", Start: "2025-13-01", Rate: "x", Password: "123", Confirm: "321"}, nil)

	assert.Equal(t, map[string]string{
		"name":     "Max 5 characters",
		"email":    "Invalid email",
		"start":    "start must be a YYYY-MM-DD date",
		"rate":     "rate must be a number",
		"password": "Min 6 characters",
		"confirm":  "confirm must match Password",
	}, errs)

	assert.Nil(t, Validate(sample{Name: "Ann", Email: "ann@example.com", Start: "2025-06-10", Rate: "45.00"}, nil))
}

func TestValidate_CustomMessages(t *testing.T) {
	msgs := Messages{
		"name.required": "Name is required",
		"email":         "Bad email",
	}
	errs := Validate(sample{}, msgs)
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Bad email", errs["email"])
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(sample{Name: "Ann", Email: "ann@example.com"}, nil))

	err := Check(sample{Email: "ann@example.com"}, nil)
	require.Error(t, err)

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name is required", fe.Details()["name"])
	assert.Equal(t, "validation failed: name: name is required", err.Error())
}
