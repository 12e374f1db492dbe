package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentcar/internal/domain"
)

// defaultLocationID preselects the first site for pickup and return.
const defaultLocationID int64 = 1

const (
	noticeSubmitted = "Booking submitted successfully"
	noticeFailed    = "Booking failed. Please try again."
)

// Form is everything the four steps collect.
type Form struct {
	RentalStartDate  string `json:"rentalStartDate"`
	RentalEndDate    string `json:"rentalEndDate"`
	PickupLocationID int64  `json:"pickupLocationID"`
	ReturnLocationID int64  `json:"returnLocationID"`
	CarID            int64  `json:"carID"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	Address          string `json:"address"`
}

// Patch updates the form fields that are set.
type Patch struct {
	RentalStartDate  *string `json:"rentalStartDate"`
	RentalEndDate    *string `json:"rentalEndDate"`
	PickupLocationID *int64  `json:"pickupLocationID"`
	ReturnLocationID *int64  `json:"returnLocationID"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Email            *string `json:"email"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
}

// BookingCreator is the one backend call the wizard makes.
type BookingCreator interface {
	CreateBooking(ctx context.Context, in domain.BookingInput) (domain.Booking, error)
}

// View is a snapshot for rendering.
type View struct {
	Step         Step              `json:"step"`
	Form         Form              `json:"form"`
	Car          *domain.Car       `json:"car"`
	Quote        domain.Quote      `json:"quote"`
	Errors       map[string]string `json:"errors,omitempty"`
	Notification string            `json:"notification,omitempty"`
	Booking      *domain.Booking   `json:"booking,omitempty"`
	CanPrevious  bool              `json:"canPrevious"`
	CanSubmit    bool              `json:"canSubmit"`
	Submitting   bool              `json:"submitting"`
}

// Wizard is the four-step booking flow of one client.
type Wizard struct {
	mu         sync.Mutex
	step       Step
	form       Form
	car        *domain.Car
	quote      domain.Quote
	errors     map[string]string
	notice     string
	booking    *domain.Booking
	submitting bool
	// gen counts Clear calls; a submit that raced one leaves the state alone.
	gen        uint64

	locations map[int64]domain.Location
	now       func() time.Time
}

// New starts a wizard at the first step. With a non-empty location list the
// pickup and return ids must belong to it.
func New(now func() time.Time, locations []domain.Location) *Wizard {
	if now == nil {
		now = time.Now
	}
	w := &Wizard{now: now}
	if len(locations) > 0 {
		w.locations = make(map[int64]domain.Location, len(locations))
		for _, l := range locations {
			w.locations[l.LocationID] = l
		}
	}
	w.clear()
	return w
}

func (w *Wizard) clear() {
	w.step = StepRentalDetails
	w.form = Form{PickupLocationID: defaultLocationID, ReturnLocationID: defaultLocationID}
	w.car = nil
	w.quote = domain.Quote{}
	w.errors = nil
	w.notice = ""
	w.booking = nil
	w.submitting = false
}

// recompute derives the quote from dates and car; it is zero whenever any
// of them is missing or the range is invalid.
func (w *Wizard) recompute() {
	w.quote = domain.Quote{}
	if w.car == nil {
		return
	}
	q, err := domain.QuoteDates(w.form.RentalStartDate, w.form.RentalEndDate, w.car.RentalRate)
	if err != nil {
		return
	}
	w.quote = q
}

func (w *Wizard) Update(p Patch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepSubmitted {
		return ErrSubmitted
	}
	if w.submitting {
		return ErrSubmitting
	}

	datesChanged := false
	setString := func(dst *string, src *string, field string) {
		if src == nil {
			return
		}
		*dst = *src
		delete(w.errors, field)
	}
	if p.RentalStartDate != nil && *p.RentalStartDate != w.form.RentalStartDate {
		datesChanged = true
	}
	if p.RentalEndDate != nil && *p.RentalEndDate != w.form.RentalEndDate {
		datesChanged = true
	}

	setString(&w.form.RentalStartDate, p.RentalStartDate, "rentalStartDate")
	setString(&w.form.RentalEndDate, p.RentalEndDate, "rentalEndDate")
	setString(&w.form.FirstName, p.FirstName, "firstName")
	setString(&w.form.LastName, p.LastName, "lastName")
	setString(&w.form.Email, p.Email, "email")
	setString(&w.form.PhoneNumber, p.PhoneNumber, "phoneNumber")
	setString(&w.form.Address, p.Address, "address")
	if p.PickupLocationID != nil {
		w.form.PickupLocationID = *p.PickupLocationID
		delete(w.errors, "pickupLocationID")
	}
	if p.ReturnLocationID != nil {
		w.form.ReturnLocationID = *p.ReturnLocationID
		delete(w.errors, "returnLocationID")
	}

	if datesChanged {
		w.recompute()
	}
	return nil
}

// SelectCar picks the car on the selection step.
func (w *Wizard) SelectCar(car domain.Car) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepCarSelection {
		return ErrWrongStep
	}
	if !car.Availability {
		return ErrCarUnavailable
	}
	c := car
	w.car = &c
	w.form.CarID = car.CarID
	delete(w.errors, "carID")
	w.recompute()
	return nil
}

// Next validates the current step and advances when it passes.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepConfirmation, StepSubmitted:
		return ErrWrongStep
	}

	if errs := w.validateStep(w.step); len(errs) > 0 {
		w.errors = errs
		return &ValidationError{Fields: copyErrors(errs)}
	}
	w.errors = nil
	w.notice = ""
	w.step++
	return nil
}

// Previous goes back exactly one step and keeps everything entered.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.step == StepSubmitted:
		return ErrSubmitted
	case w.submitting:
		return ErrSubmitting
	case w.step <= StepRentalDetails:
		return ErrNoPrevious
	}
	w.step--
	w.errors = nil
	return nil
}

// Submit sends one create-booking request from the confirmation step. On
// failure nothing entered is lost and the call can be retried.
func (w *Wizard) Submit(ctx context.Context, creator BookingCreator, customerID int64) (domain.Booking, error) {
	w.mu.Lock()
	if w.step == StepSubmitted {
		w.mu.Unlock()
		return domain.Booking{}, ErrSubmitted
	}
	if w.step != StepConfirmation {
		w.mu.Unlock()
		return domain.Booking{}, ErrWrongStep
	}
	if w.submitting {
		w.mu.Unlock()
		return domain.Booking{}, ErrSubmitting
	}
	if customerID <= 0 {
		w.mu.Unlock()
		return domain.Booking{}, ErrNoCustomer
	}
	for s := StepRentalDetails; s < StepConfirmation; s++ {
		if errs := w.validateStep(s); len(errs) > 0 {
			w.errors = errs
			w.mu.Unlock()
			return domain.Booking{}, &ValidationError{Fields: copyErrors(errs)}
		}
	}
	if w.quote.IsZero() {
		w.mu.Unlock()
		return domain.Booking{}, ErrNoQuote
	}

	in := domain.BookingInput{
		CarID:           w.form.CarID,
		CustomerID:      customerID,
		RentalStartDate: w.form.RentalStartDate,
		RentalEndDate:   w.form.RentalEndDate,
		TotalAmount:     w.quote.AmountString(),
	}
	w.submitting = true
	w.notice = ""
	gen := w.gen
	w.mu.Unlock()

	booking, err := creator.CreateBooking(ctx, in)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		if err != nil {
			return domain.Booking{}, fmt.Errorf("create booking: %w", err)
		}
		return booking, nil
	}
	w.submitting = false
	if err != nil {
		w.notice = noticeFailed
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	w.step = StepSubmitted
	w.booking = &booking
	w.notice = noticeSubmitted
	return booking, nil
}

// Clear drops everything entered, from any step. It is used when the
// signed-in user changes.
func (w *Wizard) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.clear()
}

// Reset starts over; only a submitted wizard can be reset.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSubmitted {
		return ErrNotSubmitted
	}
	w.clear()
	return nil
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Step:         w.step,
		Form:         w.form,
		Quote:        w.quote,
		Errors:       copyErrors(w.errors),
		Notification: w.notice,
		CanPrevious:  w.step > StepRentalDetails && w.step < StepSubmitted && !w.submitting,
		CanSubmit:    w.step == StepConfirmation && !w.quote.IsZero() && !w.submitting,
		Submitting:   w.submitting,
	}
	if w.car != nil {
		c := *w.car
		v.Car = &c
	}
	if w.booking != nil {
		b := *w.booking
		v.Booking = &b
	}
	return v
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func copyErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
