package response

import (
	"time"

	"safari-booking/internal/data/entity"
)

type GuestResponse struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`

	Passport          string     `json:"passport,omitempty"`
	PassportNumber    string     `json:"passportNumber,omitempty"`
	PassportCountry   string     `json:"passportCountry,omitempty"`
	PassportIssuedOn  *time.Time `json:"passportIssuedOn,omitempty"`
	PassportExpiresOn *time.Time `json:"passportExpiresOn,omitempty"`

	EmergencyContactName   string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string `json:"emergencyContactNumber,omitempty"`

	MedicalCertificate string `json:"medicalCertificate,omitempty"`
	TravelInsurance    string `json:"travelInsurance,omitempty"`

	RegistrationPayment bool `json:"registrationPayment"`
}

type PaymentDetailsResponse struct {
	TransactionID string    `json:"transactionId"`
	PaymentDate   time.Time `json:"paymentDate"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PayerEmail    string    `json:"payerEmail"`
	PayerName     string    `json:"payerName"`
	Status        string    `json:"status"`
}

type BookingResponse struct {
	ID            string                  `json:"id"`
	BookingRef    string                  `json:"bookingRef"`
	TripID        string                  `json:"tripId"`
	UserID        string                  `json:"userId"`
	BookingDate   time.Time               `json:"bookingDate"`
	Guests        []GuestResponse         `json:"guests"`
	BookingStatus entity.BookingStatus    `json:"bookingStatus"`
	PaymentStatus entity.PaymentStatus    `json:"paymentStatus"`
	Acknowledged  bool                    `json:"acknowledged"`
	Payment       *PaymentDetailsResponse `json:"paymentDetails,omitempty"`
	Trip          *TripSummary            `json:"trip,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

func GuestToResponse(guest *entity.Guest) GuestResponse {
	return GuestResponse{
		Name:                   guest.Name,
		Age:                    guest.Age,
		Gender:                 guest.Gender,
		Phone:                  guest.Phone,
		Country:                guest.Country,
		State:                  guest.State,
		Address:                guest.Address,
		Passport:               guest.Passport,
		PassportNumber:         guest.PassportNumber,
		PassportCountry:        guest.PassportCountry,
		PassportIssuedOn:       guest.PassportIssuedOn,
		PassportExpiresOn:      guest.PassportExpiresOn,
		EmergencyContactName:   guest.EmergencyContactName,
		EmergencyContactNumber: guest.EmergencyContactNumber,
		MedicalCertificate:     guest.MedicalCertificate,
		TravelInsurance:        guest.TravelInsurance,
		RegistrationPayment:    guest.RegistrationPayment,
	}
}

func BookingToResponse(booking *entity.Booking, trip *entity.Trip) BookingResponse {
	guests := make([]GuestResponse, len(booking.Guests))
	for i := range booking.Guests {
		guests[i] = GuestToResponse(&booking.Guests[i])
	}

	resp := BookingResponse{
		ID:            booking.ID.Hex(),
		BookingRef:    booking.BookingRef,
		TripID:        booking.TripID.Hex(),
		UserID:        booking.UserID.Hex(),
		BookingDate:   booking.BookingDate,
		Guests:        guests,
		BookingStatus: booking.BookingStatus,
		PaymentStatus: booking.PaymentStatus,
		Acknowledged:  booking.Acknowledged,
		Trip:          TripToSummary(trip),
		CreatedAt:     booking.CreatedAt,
	}

	if booking.RegistrationPaymentDetails != nil {
		resp.Payment = paymentDetailsToResponse(booking.RegistrationPaymentDetails)
	}

	return resp
}

func paymentDetailsToResponse(details *entity.RegistrationPaymentDetails) *PaymentDetailsResponse {
	return &PaymentDetailsResponse{
		TransactionID: details.TransactionID,
		PaymentDate:   details.PaymentDate,
		Amount:        details.Amount,
		Currency:      details.Currency,
		PayerEmail:    details.PayerEmail,
		PayerName:     details.PayerName,
		Status:        details.Status,
	}
}
