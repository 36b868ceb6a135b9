package usecase

import (
	"context"
	"fmt"

	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/response"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TripService interface {
	GetTrips(ctx context.Context, isActive *bool) ([]response.TripResponse, error)
	GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error)
}

type tripService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTripService(repo *repository.Repository, log *zap.Logger) TripService {
	return &tripService{
		repo: repo,
		log:  log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) GetTrips(ctx context.Context, isActive *bool) ([]response.TripResponse, error) {
	trips, err := s.repo.Trip.FindAll(ctx, isActive)
	if err != nil {
		s.log.Error("Failed to list trips", zap.Error(err))
		return nil, fmt.Errorf("failed to list trips")
	}

	resp := make([]response.TripResponse, len(trips))
	for i, trip := range trips {
		resp[i] = response.TripToResponse(trip)
	}

	return resp, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error) {
	id, err := primitive.ObjectIDFromHex(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip id", ErrValidation)
	}

	trip, err := s.repo.Trip.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("failed to load trip")
	}
	if trip == nil {
		return nil, fmt.Errorf("%w: trip", ErrNotFound)
	}

	resp := response.TripToResponse(trip)
	return &resp, nil
}
