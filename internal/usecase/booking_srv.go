package usecase

import (
	"context"
	"fmt"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/request"
	"safari-booking/internal/dto/response"
	"safari-booking/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, email string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookings(ctx context.Context, email string, req *request.BookingListRequest) ([]response.BookingResponse, error)
	GetBookingByID(ctx context.Context, email, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, email string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("CreateBooking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	tripID, err := primitive.ObjectIDFromHex(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip id", ErrValidation)
	}

	bookingDate, err := parseBookingDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking date, expected YYYY-MM-DD", ErrValidation)
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for booking", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create booking")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	trip, err := s.repo.Trip.FindByID(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to load trip for booking", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}
	if trip == nil {
		return nil, fmt.Errorf("%w: trip", ErrNotFound)
	}
	if !trip.IsActive {
		return nil, fmt.Errorf("%w: trip is not available for booking", ErrInvalidState)
	}

	guests := make([]entity.Guest, len(req.Guests))
	for i, g := range req.Guests {
		guests[i] = entity.Guest{
			Name:    g.Name,
			Age:     *g.Age,
			Gender:  g.Gender,
			Phone:   g.Phone,
			Country: g.Country,
			State:   g.State,
			Address: g.Address,
		}
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TripID:        trip.ID,
		UserID:        user.ID,
		BookingRef:    utils.GenerateBookingRef(trip.Name, bookingDate),
		BookingDate:   bookingDate,
		Guests:        guests,
		BookingStatus: entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking")
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.Hex()),
		zap.String("booking_ref", booking.BookingRef),
		zap.String("user_id", user.ID.Hex()),
		zap.Int("guest_count", len(guests)),
	)

	resp := response.BookingToResponse(booking, trip)
	return &resp, nil
}

func (s *bookingService) GetBookings(ctx context.Context, email string, req *request.BookingListRequest) ([]response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for bookings", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to list bookings")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindByUser(ctx, user.ID, repository.BookingFilter{
		BookingStatus: req.BookingStatus,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings")
	}

	// One trip lookup per distinct trip, not per booking
	trips := make(map[primitive.ObjectID]*entity.Trip)
	resp := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		trip, ok := trips[booking.TripID]
		if !ok {
			trip, err = s.repo.Trip.FindByID(ctx, booking.TripID)
			if err != nil {
				s.log.Warn("Failed to load trip for booking",
					zap.Error(err),
					zap.String("trip_id", booking.TripID.Hex()),
				)
			}
			trips[booking.TripID] = trip
		}
		resp[i] = response.BookingToResponse(booking, trip)
	}

	return resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, email, bookingID string) (*response.BookingResponse, error) {
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrValidation)
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user for booking", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to load booking")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	// Someone else's booking looks exactly like a missing one
	booking, err := s.repo.Booking.FindByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", ErrNotFound)
	}

	trip, err := s.repo.Trip.FindByID(ctx, booking.TripID)
	if err != nil {
		s.log.Warn("Failed to load trip for booking", zap.Error(err), zap.String("trip_id", booking.TripID.Hex()))
	}

	resp := response.BookingToResponse(booking, trip)
	return &resp, nil
}

func parseBookingDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
