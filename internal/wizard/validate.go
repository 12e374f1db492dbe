package wizard

import (
	"rentcar/internal/domain"
	"rentcar/internal/pkg/validator"
)

type rentalDetails struct {
	RentalStartDate  string `json:"rentalStartDate" validate:"required,date"`
	RentalEndDate    string `json:"rentalEndDate" validate:"required,date"`
	PickupLocationID int64  `json:"pickupLocationID" validate:"required,gt=0"`
	ReturnLocationID int64  `json:"returnLocationID" validate:"required,gt=0"`
}

var rentalDetailsMessages = validator.Messages{
	"rentalStartDate.required": "Pickup date is required",
	"rentalStartDate.date":     "Pickup date is invalid",
	"rentalEndDate.required":   "Return date is required",
	"rentalEndDate.date":       "Return date is invalid",
	"pickupLocationID":         "Pickup location is required",
	"returnLocationID":         "Return location is required",
}

type customerInfo struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Address     string `json:"address" validate:"required,max=255"`
}

var customerInfoMessages = validator.Messages{
	"firstName.required":   "First name is required",
	"lastName.required":    "Last name is required",
	"email.required":       "Email is required",
	"email.email":          "Invalid email",
	"phoneNumber.required": "Phone number is required",
	"address.required":     "Address is required",
}

func (w *Wizard) validateRentalDetails() map[string]string {
	f := w.form
	errs := validator.Validate(rentalDetails{
		RentalStartDate:  f.RentalStartDate,
		RentalEndDate:    f.RentalEndDate,
		PickupLocationID: f.PickupLocationID,
		ReturnLocationID: f.ReturnLocationID,
	}, rentalDetailsMessages)
	if errs == nil {
		errs = make(map[string]string)
	}

	start, startErr := domain.ParseDate(f.RentalStartDate)
	if _, bad := errs["rentalStartDate"]; !bad && startErr == nil {
		if start.Before(domain.Today(w.now())) {
			errs["rentalStartDate"] = "Pickup date must be in the future"
		}
	}
	if _, bad := errs["rentalEndDate"]; !bad {
		end, err := domain.ParseDate(f.RentalEndDate)
		if err == nil && (startErr != nil || !end.After(start)) {
			errs["rentalEndDate"] = "Return date must be after pickup date"
		}
	}

	for field, id := range map[string]int64{"pickupLocationID": f.PickupLocationID, "returnLocationID": f.ReturnLocationID} {
		if _, bad := errs[field]; bad || len(w.locations) == 0 {
			continue
		}
		if _, ok := w.locations[id]; !ok {
			errs[field] = "Unknown location"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (w *Wizard) validateCarSelection() map[string]string {
	if w.form.CarID <= 0 || w.car == nil {
		return map[string]string{"carID": "Please select a car"}
	}
	return nil
}

func (w *Wizard) validateCustomerInfo() map[string]string {
	f := w.form
	return validator.Validate(customerInfo{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
	}, customerInfoMessages)
}

func (w *Wizard) validateStep(s Step) map[string]string {
	switch s {
	case StepRentalDetails:
		return w.validateRentalDetails()
	case StepCarSelection:
		return w.validateCarSelection()
	case StepCustomerInfo:
		return w.validateCustomerInfo()
	}
	return nil
}

