package wizard

import "encoding/json"

type Step int

const (
	StepRentalDetails Step = iota + 1
	StepCarSelection
	StepCustomerInfo
	StepConfirmation
	StepSubmitted
)

var stepNames = map[Step]string{
	StepRentalDetails: "rental_details",
	StepCarSelection:  "car_selection",
	StepCustomerInfo:  "customer_info",
	StepConfirmation:  "confirmation",
	StepSubmitted:     "submitted",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
	}{int(s), s.String()})
}
