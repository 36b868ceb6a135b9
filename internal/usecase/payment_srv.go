package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/dto/request"
	"safari-booking/internal/dto/response"
	"safari-booking/pkg/payment"
	"safari-booking/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const captureStatusCompleted = "COMPLETED"

type PaymentService interface {
	CreateOrder(ctx context.Context, email string, req *request.CreateOrderRequest) (*response.OrderResponse, error)
	CaptureOrder(ctx context.Context, email string, req *request.CaptureOrderRequest) (*response.CaptureResponse, error)
	GetStatus(ctx context.Context, email, bookingID string) (*response.PaymentStatusResponse, error)
	Refund(ctx context.Context, email string, req *request.RefundRequest) (*response.RefundResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway payment.Gateway
	log     *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway payment.Gateway, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		log:     log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, email string, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.ownedBooking(ctx, email, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: booking is already paid", ErrInvalidState)
	}

	description := req.Description
	if description == "" {
		description = "Trip registration " + booking.BookingRef
	}

	// Registration charges settle in USD regardless of what the client sent
	orderID, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    "USD",
		Description: description,
		CustomID:    fmt.Sprintf("REG_%s_%d", booking.BookingRef, time.Now().Unix()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order")
	}

	s.log.Info("Payment order created",
		zap.String("booking_id", booking.ID.Hex()),
		zap.String("order_id", orderID),
	)

	return &response.OrderResponse{OrderID: orderID}, nil
}

// CaptureOrder confirms the booking only on a COMPLETED capture; the
// settlement details, booking status, and every guest's payment flag land in
// one document write. Any other provider status leaves the booking untouched.
func (s *paymentService) CaptureOrder(ctx context.Context, email string, req *request.CaptureOrderRequest) (*response.CaptureResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.ownedBooking(ctx, email, req.BookingID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment")
	}

	if result.Status != captureStatusCompleted {
		s.log.Warn("Capture did not complete",
			zap.String("booking_id", booking.ID.Hex()),
			zap.String("order_id", req.OrderID),
			zap.String("status", result.Status),
		)
		return nil, fmt.Errorf("%w: payment status %s", ErrPaymentIncomplete, result.Status)
	}

	booking.BookingStatus = entity.BookingStatusConfirmed
	booking.PaymentStatus = entity.PaymentStatusPaid
	booking.RegistrationPaymentDetails = &entity.RegistrationPaymentDetails{
		TransactionID: result.TransactionID,
		PaymentDate:   time.Now(),
		Amount:        result.Amount,
		Currency:      result.Currency,
		PayerEmail:    result.PayerEmail,
		PayerName:     result.PayerName,
		Status:        result.Status,
	}
	for i := range booking.Guests {
		booking.Guests[i].RegistrationPayment = true
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.log.Error("Failed to record capture",
			zap.Error(err),
			zap.String("booking_id", booking.ID.Hex()),
			zap.String("transaction_id", result.TransactionID),
		)
		return nil, fmt.Errorf("failed to record payment")
	}

	s.log.Info("Payment captured",
		zap.String("booking_id", booking.ID.Hex()),
		zap.String("transaction_id", result.TransactionID),
		zap.Float64("amount", result.Amount),
	)

	return &response.CaptureResponse{
		TransactionID: result.TransactionID,
		BookingStatus: booking.BookingStatus,
		PaymentStatus: booking.PaymentStatus,
	}, nil
}

func (s *paymentService) GetStatus(ctx context.Context, email, bookingID string) (*response.PaymentStatusResponse, error) {
	booking, err := s.ownedBooking(ctx, email, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.repo.Trip.FindByID(ctx, booking.TripID)
	if err != nil {
		s.log.Warn("Failed to load trip for payment status",
			zap.Error(err),
			zap.String("trip_id", booking.TripID.Hex()),
		)
	}

	guests := make([]response.GuestPaymentSummary, len(booking.Guests))
	paid := 0
	for i, guest := range booking.Guests {
		if guest.RegistrationPayment {
			paid++
		}
		guests[i] = response.GuestPaymentSummary{
			Name:                guest.Name,
			Age:                 guest.Age,
			RegistrationPayment: guest.RegistrationPayment,
		}
	}

	resp := &response.PaymentStatusResponse{
		BookingRef:    booking.BookingRef,
		BookingStatus: booking.BookingStatus,
		PaymentStatus: booking.PaymentStatus,
		AllGuestsPaid: paid == len(booking.Guests) && len(booking.Guests) > 0,
		GuestCount:    len(booking.Guests),
		PaidCount:     paid,
		Guests:        guests,
		Trip:          response.TripToSummary(trip),
	}

	if trip != nil {
		resp.TotalAmount = trip.Price * float64(len(booking.Guests))
	}
	if booking.RegistrationPaymentDetails != nil {
		resp.Payment = &response.PaymentDetailsResponse{
			TransactionID: booking.RegistrationPaymentDetails.TransactionID,
			PaymentDate:   booking.RegistrationPaymentDetails.PaymentDate,
			Amount:        booking.RegistrationPaymentDetails.Amount,
			Currency:      booking.RegistrationPaymentDetails.Currency,
			PayerEmail:    booking.RegistrationPaymentDetails.PayerEmail,
			PayerName:     booking.RegistrationPaymentDetails.PayerName,
			Status:        booking.RegistrationPaymentDetails.Status,
		}
	}

	return resp, nil
}

// Refund is local bookkeeping only: the booking flips to cancelled/refunded
// and guest payment flags reset, but no money moves at the provider
func (s *paymentService) Refund(ctx context.Context, email string, req *request.RefundRequest) (*response.RefundResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.ownedBooking(ctx, email, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus != entity.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: only paid bookings can be refunded", ErrInvalidState)
	}

	booking.BookingStatus = entity.BookingStatusCancelled
	booking.PaymentStatus = entity.PaymentStatusRefunded
	for i := range booking.Guests {
		booking.Guests[i].RegistrationPayment = false
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record refund")
	}

	s.log.Warn("Booking refunded locally, no provider refund was issued",
		zap.String("booking_id", booking.ID.Hex()),
		zap.String("booking_ref", booking.BookingRef),
	)

	return &response.RefundResponse{
		BookingStatus: booking.BookingStatus,
		PaymentStatus: booking.PaymentStatus,
	}, nil
}

func (s *paymentService) ownedBooking(ctx context.Context, email, bookingID string) (*entity.Booking, error) {
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
