package repository

import (
	"safari-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Trip    TripRepository
	Booking BookingRepository
}

func NewRepository(db *database.DB, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Trip:    NewTripRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
