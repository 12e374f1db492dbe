package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of rental dates. Dates carry no time of day.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("end date must be after start date")
	ErrInvalidRate  = errors.New("invalid rental rate")
)

type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
)

// Booking is the stored booking record.
type Booking struct {
	BookingID       int64  `json:"bookingID"`
	CarID           int64  `json:"carID"`
	CustomerID      int64  `json:"customerID"`
	RentalStartDate string `json:"rentalStartDate"`
	RentalEndDate   string `json:"rentalEndDate"`
	TotalAmount     string `json:"totalAmount"`
}

// BookingInput is the create payload sent by the wizard.
type BookingInput struct {
	CarID           int64  `json:"carID"`
	CustomerID      int64  `json:"customerID"`
	RentalStartDate string `json:"rentalStartDate"`
	RentalEndDate   string `json:"rentalEndDate"`
	TotalAmount     string `json:"totalAmount"`
}

// BookingUpdate is a partial update, used for date extensions.
type BookingUpdate struct {
	RentalStartDate *string `json:"rentalStartDate,omitempty"`
	RentalEndDate   *string `json:"rentalEndDate,omitempty"`
	TotalAmount     *string `json:"totalAmount,omitempty"`
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight. Timestamps with a time
// component are accepted and truncated to their date.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the calendar date of now, as UTC midnight.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// RentalDays is ceil((end-start)/1 day). Partial days round up.
func RentalDays(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	d := end.Sub(start)
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days, nil
}

// Quote is the derived price of a rental.
type Quote struct {
	TotalDays   int
	TotalAmount decimal.Decimal
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalDays   int    `json:"totalDays"`
		TotalAmount string `json:"totalAmount"`
	}{q.TotalDays, q.AmountString()})
}

func (q Quote) IsZero() bool {
	return q.TotalDays == 0
}

// AmountString formats the total with two decimals, the way it is sent and shown.
func (q Quote) AmountString() string {
	return q.TotalAmount.StringFixed(2)
}

// QuoteRental computes totalDays and dailyRate x totalDays exactly.
func QuoteRental(start, end time.Time, rate string) (Quote, error) {
	days, err := RentalDays(start, end)
	if err != nil {
		return Quote{}, err
	}
	r, err := decimal.NewFromString(rate)
	if err != nil || r.IsNegative() {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidRate, rate)
	}
	return Quote{TotalDays: days, TotalAmount: r.Mul(decimal.NewFromInt(int64(days)))}, nil
}

// QuoteDates is QuoteRental over wire dates.
func QuoteDates(startDate, endDate, rate string) (Quote, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Quote{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Quote{}, err
	}
	return QuoteRental(start, end, rate)
}

// Status classifies a booking relative to now.
func (b Booking) Status(now time.Time) BookingStatus {
	start, err1 := ParseDate(b.RentalStartDate)
	end, err2 := ParseDate(b.RentalEndDate)
	if err1 != nil || err2 != nil {
		return BookingCompleted
	}
	today := Today(now)
	switch {
	case today.Before(start):
		return BookingUpcoming
	case !today.After(end):
		return BookingActive
	default:
		return BookingCompleted
	}
}

// Days is the rental length of a stored booking, zero when the dates are unusable.
func (b Booking) Days() int {
	start, err := ParseDate(b.RentalStartDate)
	if err != nil {
		return 0
	}
	end, err := ParseDate(b.RentalEndDate)
	if err != nil {
		return 0
	}
	days, _ := RentalDays(start, end)
	return days
}

// Amount parses TotalAmount; an empty or malformed amount counts as zero.
func (b Booking) Amount() decimal.Decimal {
	d, err := decimal.NewFromString(b.TotalAmount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
