package request

type GuestInput struct {
	Name    string `json:"name" validate:"required"`
	Age     *int   `json:"age" validate:"required,gte=0"`
	Gender  string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
}

type CreateBookingRequest struct {
	TripID string       `json:"tripId" validate:"required"`
	Date   string       `json:"date" validate:"required"`
	Guests []GuestInput `json:"guests" validate:"required,min=1,dive"`
}

type BookingListRequest struct {
	BookingStatus string `json:"bookingStatus,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid refunded"`
}
