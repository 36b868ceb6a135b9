package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Guest is an embedded sub-record of a Booking. Guests are addressed by
// position in the slice, not by a stable ID, so reordering is destructive.
type Guest struct {
	Name    string  `bson:"name"`
	Age     int     `bson:"age"`
	Gender  string  `bson:"gender,omitempty"`
	Phone   string  `bson:"phone,omitempty"`
	Country string  `bson:"country,omitempty"`
	State   string  `bson:"state,omitempty"`
	Address string  `bson:"address,omitempty"`

	// Passport scan URL plus passport metadata
	Passport          string     `bson:"passport,omitempty"`
	PassportNumber    string     `bson:"passport_number,omitempty"`
	PassportCountry   string     `bson:"passport_country,omitempty"`
	PassportIssuedOn  *time.Time `bson:"passport_issued_on,omitempty"`
	PassportExpiresOn *time.Time `bson:"passport_expires_on,omitempty"`

	EmergencyContactName   string `bson:"emergency_contact_name,omitempty"`
	EmergencyContactNumber string `bson:"emergency_contact_number,omitempty"`

	MedicalCertificate string `bson:"medical_certificate,omitempty"`
	TravelInsurance    string `bson:"travel_insurance,omitempty"`

	RegistrationPayment bool `bson:"registration_payment"`
}

// RegistrationPaymentDetails is the provider's confirmed settlement record
type RegistrationPaymentDetails struct {
	TransactionID string    `bson:"transaction_id"`
	PaymentDate   time.Time `bson:"payment_date"`
	Amount        float64   `bson:"amount"`
	Currency      string    `bson:"currency"`
	PayerEmail    string    `bson:"payer_email"`
	PayerName     string    `bson:"payer_name"`
	Status        string    `bson:"status"`
}

type Booking struct {
	Base
	TripID      primitive.ObjectID `bson:"trip_id"`
	UserID      primitive.ObjectID `bson:"user_id"`
	BookingRef  string             `bson:"booking_ref"`
	BookingDate time.Time          `bson:"booking_date"`

	Guests []Guest `bson:"guests"`

	BookingStatus BookingStatus `bson:"booking_status"`
	PaymentStatus PaymentStatus `bson:"payment_status"`
	Acknowledged  bool          `bson:"acknowledged"`

	RegistrationPaymentDetails *RegistrationPaymentDetails `bson:"registration_payment_details,omitempty"`
}
