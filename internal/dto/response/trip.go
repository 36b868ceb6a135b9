package response

import (
	"time"

	"safari-booking/internal/data/entity"
)

type TripResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TripSummary is the subset embedded in booking and payment views
type TripSummary struct {
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

func TripToResponse(trip *entity.Trip) TripResponse {
	return TripResponse{
		ID:          trip.ID.Hex(),
		Name:        trip.Name,
		Destination: trip.Destination,
		Price:       trip.Price,
		Image:       trip.Image,
		IsActive:    trip.IsActive,
		CreatedAt:   trip.CreatedAt,
	}
}

func TripToSummary(trip *entity.Trip) *TripSummary {
	if trip == nil {
		return nil
	}
	return &TripSummary{
		Name:        trip.Name,
		Destination: trip.Destination,
		Price:       trip.Price,
		Image:       trip.Image,
	}
}
