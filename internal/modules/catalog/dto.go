package catalog

import (
	"bytes"
	"encoding/json"

	"rentcar/internal/domain"
)

// Rate accepts the rental rate as a JSON string or number.
type Rate string

func (r *Rate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Rate(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Rate(n.String())
	return nil
}

type CarRequest struct {
	CarModel     string `json:"carModel" validate:"required,max=100"`
	Year         string `json:"year" validate:"required"`
	Color        string `json:"color" validate:"omitempty,max=30"`
	RentalRate   Rate   `json:"rentalRate" validate:"required"`
	Availability *bool  `json:"availability"`
	LocationID   *int64 `json:"locationID" validate:"omitempty,gt=0"`
}

// CarView is a car with its site resolved.
type CarView struct {
	domain.Car
	Location *domain.Location `json:"location,omitempty"`
}
