package usecase

import (
	"context"
	"testing"
	"time"

	"safari-booking/internal/data/entity"
	"safari-booking/internal/dto/request"
	"safari-booking/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func paymentFixture(t *testing.T) (*entity.Booking, *fakeUserRepo, *fakeTripRepo, *fakeBookingRepo) {
	t.Helper()
	user := newVerifiedUser(t, "owner@example.com", "secret123")
	trip := newTestTrip("Serengeti Sunrise", 1500)
	booking := &entity.Booking{
		Base:          entity.Base{ID: primitive.NewObjectID(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		TripID:        trip.ID,
		UserID:        user.ID,
		BookingRef:    "SERENG20260901-00001",
		BookingStatus: entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Guests: []entity.Guest{
			{Name: "Amina", Age: 34},
			{Name: "Joseph", Age: 8},
		},
	}
	return booking,
		&fakeUserRepo{users: []*entity.User{user}},
		&fakeTripRepo{trips: []*entity.Trip{trip}},
		&fakeBookingRepo{bookings: []*entity.Booking{booking}}
}

func TestCreateOrder(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	gateway := &fakeGateway{orderID: "ORDER-123"}
	svc := NewPaymentService(testRepo(users, trips, bookings), gateway, testLogger())

	resp, err := svc.CreateOrder(context.Background(), "owner@example.com", &request.CreateOrderRequest{
		BookingID: booking.ID.Hex(),
		Amount:    3000,
		Currency:  "EUR", // ignored, orders settle in USD
	})
	require.NoError(t, err)
	assert.Equal(t, "ORDER-123", resp.OrderID)
}

func TestCreateOrderAlreadyPaid(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	booking.PaymentStatus = entity.PaymentStatusPaid
	svc := NewPaymentService(testRepo(users, trips, bookings), &fakeGateway{orderID: "ORDER-123"}, testLogger())

	_, err := svc.CreateOrder(context.Background(), "owner@example.com", &request.CreateOrderRequest{
		BookingID: booking.ID.Hex(),
		Amount:    3000,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCaptureOrderCompleted(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	gateway := &fakeGateway{
		captureResult: &payment.CaptureResult{
			Status:        "COMPLETED",
			TransactionID: "TXN-789",
			Amount:        3000,
			Currency:      "USD",
			PayerEmail:    "payer@example.com",
			PayerName:     "Amina Juma",
		},
	}
	svc := NewPaymentService(testRepo(users, trips, bookings), gateway, testLogger())

	resp, err := svc.CaptureOrder(context.Background(), "owner@example.com", &request.CaptureOrderRequest{
		OrderID:   "ORDER-123",
		BookingID: booking.ID.Hex(),
	})
	require.NoError(t, err)

	assert.Equal(t, "TXN-789", resp.TransactionID)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.BookingStatus)
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)

	// Settlement, statuses, and every guest flag land in a single write
	assert.Equal(t, 1, bookings.updateCalls)
	require.NotNil(t, booking.RegistrationPaymentDetails)
	assert.Equal(t, "TXN-789", booking.RegistrationPaymentDetails.TransactionID)
	assert.Equal(t, "Amina Juma", booking.RegistrationPaymentDetails.PayerName)
	assert.InDelta(t, 3000, booking.RegistrationPaymentDetails.Amount, 0.001)
	for i, guest := range booking.Guests {
		assert.True(t, guest.RegistrationPayment, "guest %d", i)
	}
}

func TestCaptureOrderNotCompletedLeavesBookingUntouched(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	gateway := &fakeGateway{
		captureResult: &payment.CaptureResult{Status: "DECLINED"},
	}
	svc := NewPaymentService(testRepo(users, trips, bookings), gateway, testLogger())

	_, err := svc.CaptureOrder(context.Background(), "owner@example.com", &request.CaptureOrderRequest{
		OrderID:   "ORDER-123",
		BookingID: booking.ID.Hex(),
	})
	require.ErrorIs(t, err, ErrPaymentIncomplete)
	// The raw provider status is surfaced to the caller
	assert.Contains(t, err.Error(), "DECLINED")

	assert.Zero(t, bookings.updateCalls)
	assert.Equal(t, entity.BookingStatusPending, booking.BookingStatus)
	assert.Equal(t, entity.PaymentStatusPending, booking.PaymentStatus)
	assert.Nil(t, booking.RegistrationPaymentDetails)
	assert.False(t, booking.Guests[0].RegistrationPayment)
}

func TestGetStatusProjection(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	booking.Guests[0].RegistrationPayment = true
	svc := NewPaymentService(testRepo(users, trips, bookings), &fakeGateway{}, testLogger())

	resp, err := svc.GetStatus(context.Background(), "owner@example.com", booking.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, "SERENG20260901-00001", resp.BookingRef)
	assert.Equal(t, 2, resp.GuestCount)
	assert.Equal(t, 1, resp.PaidCount)
	assert.False(t, resp.AllGuestsPaid)
	assert.InDelta(t, 3000, resp.TotalAmount, 0.001) // trip price x guests
	require.Len(t, resp.Guests, 2)
	assert.True(t, resp.Guests[0].RegistrationPayment)
	require.NotNil(t, resp.Trip)
	assert.Equal(t, "Serengeti Sunrise", resp.Trip.Name)
}

func TestRefundOnlyFromPaid(t *testing.T) {
	booking, users, trips, bookings := paymentFixture(t)
	svc := NewPaymentService(testRepo(users, trips, bookings), &fakeGateway{}, testLogger())
	ctx := context.Background()

	// Pending bookings cannot be refunded
	_, err := svc.Refund(ctx, "owner@example.com", &request.RefundRequest{BookingID: booking.ID.Hex()})
	assert.ErrorIs(t, err, ErrInvalidState)

	booking.PaymentStatus = entity.PaymentStatusPaid
	booking.BookingStatus = entity.BookingStatusConfirmed
	booking.Guests[0].RegistrationPayment = true
	booking.Guests[1].RegistrationPayment = true

	resp, err := svc.Refund(ctx, "owner@example.com", &request.RefundRequest{BookingID: booking.ID.Hex()})
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusCancelled, resp.BookingStatus)
	assert.Equal(t, entity.PaymentStatusRefunded, resp.PaymentStatus)
	assert.False(t, booking.Guests[0].RegistrationPayment)
	assert.False(t, booking.Guests[1].RegistrationPayment)

	// A refunded booking cannot be refunded again
	_, err = svc.Refund(ctx, "owner@example.com", &request.RefundRequest{BookingID: booking.ID.Hex()})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaymentScopedToOwner(t *testing.T) {
	stranger := newVerifiedUser(t, "stranger@example.com", "secret123")
	booking, users, trips, bookings := paymentFixture(t)
	users.users = append(users.users, stranger)

	svc := NewPaymentService(testRepo(users, trips, bookings), &fakeGateway{orderID: "ORDER-1"}, testLogger())

	_, err := svc.GetStatus(context.Background(), "stranger@example.com", booking.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
