package reservation

import "rentcar/internal/domain"

// BookingView is a booking as the dashboards render it.
type BookingView struct {
	domain.Booking
	Status    domain.BookingStatus `json:"status"`
	Days      int                  `json:"days"`
	DailyRate string               `json:"dailyRate"`
	Car       *domain.Car          `json:"car,omitempty"`
}

type Summary struct {
	Total     int    `json:"total"`
	Active    int    `json:"active"`
	Upcoming  int    `json:"upcoming"`
	Completed int    `json:"completed"`
	Spent     string `json:"spent"`
}

type BookingList struct {
	Bookings []BookingView `json:"bookings"`
	Summary  Summary       `json:"summary"`
}

type ExtendRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=30"`
}
