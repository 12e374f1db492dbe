package domain

// Car is a rentable vehicle. RentalRate is a decimal string so that amounts
// never pass through binary floating point.
type Car struct {
	CarID        int64  `json:"carID"`
	CarModel     string `json:"carModel"`
	Year         string `json:"year"`
	Color        string `json:"color,omitempty"`
	RentalRate   string `json:"rentalRate"`
	Availability bool   `json:"availability"`
	LocationID   *int64 `json:"locationID,omitempty"`
}

type CarInput struct {
	CarModel     string `json:"carModel"`
	Year         string `json:"year"`
	Color        string `json:"color,omitempty"`
	RentalRate   string `json:"rentalRate"`
	Availability *bool  `json:"availability,omitempty"`
	LocationID   *int64 `json:"locationID,omitempty"`
}

// AvailableCars filters the advisory availability flag client side.
func AvailableCars(cars []Car) []Car {
	out := make([]Car, 0, len(cars))
	for _, c := range cars {
		if c.Availability {
			out = append(out, c)
		}
	}
	return out
}

// Location is a pickup/return site. Read-only reference data.
type Location struct {
	LocationID    int64  `json:"locationID" yaml:"id"`
	LocationName  string `json:"locationName" yaml:"name"`
	Address       string `json:"address" yaml:"address"`
	ContactNumber string `json:"contactNumber,omitempty" yaml:"contact_number"`
}
