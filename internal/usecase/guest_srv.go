package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/request"
	"safari-booking/internal/dto/response"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Document slots a guest can hold beyond the passport scan
const (
	DocumentMedicalCertificate = "medical_certificate"
	DocumentTravelInsurance    = "travel_insurance"
)

type GuestService interface {
	UpdateGuest(ctx context.Context, email, bookingID string, index int, req *request.UpdateGuestRequest) (*response.GuestResponse, error)
	UploadPassport(ctx context.Context, email, bookingID string, index int, file io.Reader, filename string) (*response.GuestResponse, error)
	UploadDocument(ctx context.Context, email, bookingID string, index int, docType string, file io.Reader, filename string) (*response.GuestResponse, error)
	GetGuest(ctx context.Context, email, bookingID string, index int) (*response.GuestResponse, error)
	GetGuests(ctx context.Context, email, bookingID string) ([]response.GuestResponse, error)
	Acknowledge(ctx context.Context, email, bookingID string, req *request.AcknowledgeRequest) (*response.BookingResponse, error)
	SetRegistrationPayment(ctx context.Context, email, bookingID string, index int, req *request.RegistrationPaymentRequest) (*response.GuestResponse, error)
}

type guestService struct {
	repo    *repository.Repository
	storage storage.Storage
	config  *utils.Config
	log     *zap.Logger
}

func NewGuestService(
	repo *repository.Repository,
	store storage.Storage,
	config *utils.Config,
	log *zap.Logger,
) GuestService {
	return &guestService{
		repo:    repo,
		storage: store,
		config:  config,
		log:     log.With(zap.String("service", "guest")),
	}
}

func (s *guestService) UpdateGuest(ctx context.Context, email, bookingID string, index int, req *request.UpdateGuestRequest) (*response.GuestResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guest, err := guestAt(booking, index)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: guest name cannot be empty", ErrValidation)
		}
		guest.Name = *req.Name
	}
	if req.Age != nil {
		guest.Age = *req.Age
	}
	if req.Gender != nil {
		guest.Gender = *req.Gender
	}
	if req.Phone != nil {
		guest.Phone = *req.Phone
	}
	if req.Country != nil {
		guest.Country = *req.Country
	}
	if req.State != nil {
		guest.State = *req.State
	}
	if req.Address != nil {
		guest.Address = *req.Address
	}
	if req.PassportNumber != nil {
		guest.PassportNumber = *req.PassportNumber
	}
	if req.PassportCountry != nil {
		guest.PassportCountry = *req.PassportCountry
	}
	if req.PassportIssuedOn != nil {
		issued, err := time.Parse("2006-01-02", *req.PassportIssuedOn)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid passportIssuedOn date, expected YYYY-MM-DD", ErrValidation)
		}
		guest.PassportIssuedOn = &issued
	}
	if req.PassportExpiresOn != nil {
		expires, err := time.Parse("2006-01-02", *req.PassportExpiresOn)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid passportExpiresOn date, expected YYYY-MM-DD", ErrValidation)
		}
		guest.PassportExpiresOn = &expires
	}
	if req.EmergencyContactName != nil {
		guest.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactNumber != nil {
		guest.EmergencyContactNumber = *req.EmergencyContactNumber
	}

	if err := s.repo.Booking.UpdateGuest(ctx, booking.ID, index, *guest); err != nil {
		return nil, fmt.Errorf("failed to update guest")
	}

	s.log.Info("Guest updated",
		zap.String("booking_id", booking.ID.Hex()),
		zap.Int("guest_index", index),
	)

	resp := response.GuestToResponse(guest)
	return &resp, nil
}

func (s *guestService) UploadPassport(ctx context.Context, email, bookingID string, index int, file io.Reader, filename string) (*response.GuestResponse, error) {
	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guest, err := guestAt(booking, index)
	if err != nil {
		return nil, err
	}

	url, err := s.replaceDocument(ctx, guest.Passport, file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload passport")
	}
	guest.Passport = url

	if err := s.repo.Booking.UpdateGuest(ctx, booking.ID, index, *guest); err != nil {
		return nil, fmt.Errorf("failed to upload passport")
	}

	s.log.Info("Passport uploaded",
		zap.String("booking_id", booking.ID.Hex()),
		zap.Int("guest_index", index),
	)

	resp := response.GuestToResponse(guest)
	return &resp, nil
}

func (s *guestService) UploadDocument(ctx context.Context, email, bookingID string, index int, docType string, file io.Reader, filename string) (*response.GuestResponse, error) {
	if docType != DocumentMedicalCertificate && docType != DocumentTravelInsurance {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrValidation, docType)
	}

	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guest, err := guestAt(booking, index)
	if err != nil {
		return nil, err
	}

	var current string
	if docType == DocumentMedicalCertificate {
		current = guest.MedicalCertificate
	} else {
		current = guest.TravelInsurance
	}

	url, err := s.replaceDocument(ctx, current, file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document")
	}

	if docType == DocumentMedicalCertificate {
		guest.MedicalCertificate = url
	} else {
		guest.TravelInsurance = url
	}

	if err := s.repo.Booking.UpdateGuest(ctx, booking.ID, index, *guest); err != nil {
		return nil, fmt.Errorf("failed to upload document")
	}

	s.log.Info("Document uploaded",
		zap.String("booking_id", booking.ID.Hex()),
		zap.Int("guest_index", index),
		zap.String("doc_type", docType),
	)

	resp := response.GuestToResponse(guest)
	return &resp, nil
}

func (s *guestService) GetGuest(ctx context.Context, email, bookingID string, index int) (*response.GuestResponse, error) {
	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guest, err := guestAt(booking, index)
	if err != nil {
		return nil, err
	}

	resp := response.GuestToResponse(guest)
	return &resp, nil
}

func (s *guestService) GetGuests(ctx context.Context, email, bookingID string) ([]response.GuestResponse, error) {
	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guests := make([]response.GuestResponse, len(booking.Guests))
	for i := range booking.Guests {
		guests[i] = response.GuestToResponse(&booking.Guests[i])
	}

	return guests, nil
}

func (s *guestService) Acknowledge(ctx context.Context, email, bookingID string, req *request.AcknowledgeRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: acknowledged must be provided as a boolean", ErrValidation)
	}

	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	booking.Acknowledged = *req.Acknowledged
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update acknowledgement")
	}

	s.log.Info("Booking acknowledgement set",
		zap.String("booking_id", booking.ID.Hex()),
		zap.Bool("acknowledged", booking.Acknowledged),
	)

	trip, err := s.repo.Trip.FindByID(ctx, booking.TripID)
	if err != nil {
		s.log.Warn("Failed to load trip for booking", zap.Error(err), zap.String("trip_id", booking.TripID.Hex()))
	}

	resp := response.BookingToResponse(booking, trip)
	return &resp, nil
}

func (s *guestService) SetRegistrationPayment(ctx context.Context, email, bookingID string, index int, req *request.RegistrationPaymentRequest) (*response.GuestResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: registrationPayment must be provided as a boolean", ErrValidation)
	}

	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	guest, err := guestAt(booking, index)
	if err != nil {
		return nil, err
	}

	guest.RegistrationPayment = *req.RegistrationPayment
	if err := s.repo.Booking.UpdateGuest(ctx, booking.ID, index, *guest); err != nil {
		return nil, fmt.Errorf("failed to update payment flag")
	}

	resp := response.GuestToResponse(guest)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// ownedBooking resolves a booking only when the caller owns it; the caller
// cannot distinguish a missing booking from someone else's
func (s *guestService) ownedBooking(ctx context.Context, email, bookingID string) (*entity.Booking, error) {
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrValidation)
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to load booking")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	booking, err := s.repo.Booking.FindByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", ErrNotFound)
	}

	return booking, nil
}

func guestAt(booking *entity.Booking, index int) (*entity.Guest, error) {
	if index < 0 || index >= len(booking.Guests) {
		return nil, fmt.Errorf("%w: guest index %d out of range", ErrValidation, index)
	}
	return &booking.Guests[index], nil
}

// replaceDocument uploads the new file and then retires the old one; losing
// the old object on a failed delete is tolerated, losing the new one is not
func (s *guestService) replaceDocument(ctx context.Context, oldURL string, file io.Reader, filename string) (string, error) {
	result, err := s.storage.Upload(ctx, file, filename)
	if err != nil {
		return "", err
	}

	if oldURL != "" {
		publicID := storage.PublicIDFromURL(oldURL, s.config.Storage.Folder)
		if publicID != "" && publicID != result.PublicID {
			if err := s.storage.Delete(ctx, publicID); err != nil {
				s.log.Warn("Failed to delete replaced document",
					zap.Error(err),
					zap.String("public_id", publicID),
				)
			}
		}
	}

	return result.URL, nil
}
