package response

import (
	"safari-booking/internal/data/entity"
)

type OrderResponse struct {
	OrderID string `json:"orderId"`
}

type CaptureResponse struct {
	TransactionID string               `json:"transactionId"`
	BookingStatus entity.BookingStatus `json:"bookingStatus"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
}

// GuestPaymentSummary is the per-guest slice of the status projection
type GuestPaymentSummary struct {
	Name                string `json:"name"`
	Age                 int    `json:"age"`
	RegistrationPayment bool   `json:"registrationPayment"`
}

type PaymentStatusResponse struct {
	BookingRef    string                  `json:"bookingRef"`
	BookingStatus entity.BookingStatus    `json:"bookingStatus"`
	PaymentStatus entity.PaymentStatus    `json:"paymentStatus"`
	AllGuestsPaid bool                    `json:"allGuestsPaid"`
	GuestCount    int                     `json:"guestCount"`
	PaidCount     int                     `json:"paidCount"`
	TotalAmount   float64                 `json:"totalAmount"`
	Payment       *PaymentDetailsResponse `json:"paymentDetails,omitempty"`
	Guests        []GuestPaymentSummary   `json:"guests"`
	Trip          *TripSummary            `json:"tripDetails,omitempty"`
}

type RefundResponse struct {
	BookingStatus entity.BookingStatus `json:"bookingStatus"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
}
