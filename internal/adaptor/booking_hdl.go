package adaptor

import (
	"encoding/json"
	"net/http"

	"safari-booking/internal/dto/request"
	"safari-booking/internal/usecase"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	trips   usecase.TripService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, trips usecase.TripService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		trips:   trips,
		log:     log,
	}
}

// GetTrips handles GET /api/booking/trips
func (h *BookingHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	var isActive *bool
	switch r.URL.Query().Get("active") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}

	response, err := h.trips.GetTrips(r.Context(), isActive)
	if err != nil {
		handleServiceError(w, h.log, err, "list trips")
		return
	}

	utils.ResponseSuccess(w, "Trips retrieved", response)
}

// GetTrip handles GET /api/booking/trips/{id}
func (h *BookingHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	response, err := h.trips.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get trip")
		return
	}

	utils.ResponseSuccess(w, "Trip retrieved", response)
}

// CreateBooking handles POST /api/booking/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	email, ok := utils.GetEmailFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.CreateBooking(r.Context(), email, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", response)
}

// GetBookings handles GET /api/booking/bookings
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	email, ok := utils.GetEmailFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	req := request.BookingListRequest{
		BookingStatus: r.URL.Query().Get("bookingStatus"),
		PaymentStatus: r.URL.Query().Get("paymentStatus"),
	}

	response, err := h.service.GetBookings(r.Context(), email, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved", response)
}

// GetBooking handles GET /api/booking/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	email, ok := utils.GetEmailFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	response, err := h.service.GetBookingByID(r.Context(), email, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved", response)
}
