package request

type CreateOrderRequest struct {
	BookingID   string  `json:"bookingId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description,omitempty"`
}

type CaptureOrderRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
}

type RefundRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
}
