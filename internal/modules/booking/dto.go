package booking

import "rentcar/internal/domain"

type SelectCarRequest struct {
	CarID int64 `json:"carID" binding:"required,gt=0"`
}

// CarOption is one card of the car selection step.
type CarOption struct {
	domain.Car
	Location       *domain.Location `json:"location,omitempty"`
	EstimatedTotal string           `json:"estimatedTotal,omitempty"`
}
