package devapi

import "rentcar/internal/domain"

type registerRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=15"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=255"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type carRequest struct {
	CarModel     string `json:"carModel" validate:"required,max=100"`
	Year         string `json:"year" validate:"required"`
	Color        string `json:"color" validate:"omitempty,max=30"`
	RentalRate   string `json:"rentalRate" validate:"required,numeric"`
	Availability *bool  `json:"availability"`
	LocationID   *int64 `json:"locationID" validate:"omitempty,gt=0"`
}

func (r carRequest) input() domain.CarInput {
	return domain.CarInput{
		CarModel:     r.CarModel,
		Year:         r.Year,
		Color:        r.Color,
		RentalRate:   r.RentalRate,
		Availability: r.Availability,
		LocationID:   r.LocationID,
	}
}

type bookingRequest struct {
	CarID           int64  `json:"carID" validate:"required,gt=0"`
	CustomerID      int64  `json:"customerID" validate:"required,gt=0"`
	RentalStartDate string `json:"rentalStartDate" validate:"required,date"`
	RentalEndDate   string `json:"rentalEndDate" validate:"required,date"`
	TotalAmount     string `json:"totalAmount" validate:"required,numeric"`
}

type ack struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// loginUser is the user object of a login answer.
type loginUser struct {
	UserID     int64       `json:"user_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}
