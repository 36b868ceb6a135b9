package adaptor

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"safari-booking/internal/dto/request"
	"safari-booking/internal/usecase"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Accepted upload types: passport scans and certificates are images or PDFs
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

type GuestHandler struct {
	service usecase.GuestService
	config  *utils.Config
	log     *zap.Logger
}

func NewGuestHandler(service usecase.GuestService, config *utils.Config, log *zap.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// UpdateGuest handles PUT /api/guest/form-submission/{bookingId}/{guestIndex}
func (h *GuestHandler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	email, bookingID, index, ok := h.guestParams(w, r)
	if !ok {
		return
	}

	var req request.UpdateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.UpdateGuest(r.Context(), email, bookingID, index, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update guest")
		return
	}

	utils.ResponseSuccess(w, "Guest details updated", response)
}

// UploadPassport handles PUT /api/guest/passport-upload/{bookingId}/{guestIndex}
func (h *GuestHandler) UploadPassport(w http.ResponseWriter, r *http.Request) {
	email, bookingID, index, ok := h.guestParams(w, r)
	if !ok {
		return
	}

	file, header, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	response, err := h.service.UploadPassport(r.Context(), email, bookingID, index, file, header.Filename)
	if err != nil {
		handleServiceError(w, h.log, err, "upload passport")
		return
	}

	utils.ResponseSuccess(w, "Passport uploaded", response)
}

// UploadDocument handles PUT /api/guest/document-upload/{bookingId}/{guestIndex}.
// The docType form field selects the slot: medical_certificate or
// travel_insurance.
func (h *GuestHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	email, bookingID, index, ok := h.guestParams(w, r)
	if !ok {
		return
	}

	file, header, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	docType := r.FormValue("docType")
	response, err := h.service.UploadDocument(r.Context(), email, bookingID, index, docType, file, header.Filename)
	if err != nil {
		handleServiceError(w, h.log, err, "upload document")
		return
	}

	utils.ResponseSuccess(w, "Document uploaded", response)
}

// GetGuest handles GET /api/guest/get-guest/{bookingId}/{guestIndex}
func (h *GuestHandler) GetGuest(w http.ResponseWriter, r *http.Request) {
	email, bookingID, index, ok := h.guestParams(w, r)
	if !ok {
		return
	}

	response, err := h.service.GetGuest(r.Context(), email, bookingID, index)
	if err != nil {
		handleServiceError(w, h.log, err, "get guest")
		return
	}

	utils.ResponseSuccess(w, "Guest retrieved", response)
}

// GetGuests handles GET /api/guest/get-guests/{bookingId}
func (h *GuestHandler) GetGuests(w http.ResponseWriter, r *http.Request) {
	email, ok := utils.GetEmailFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	response, err := h.service.GetGuests(r.Context(), email, chi.URLParam(r, "bookingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get guests")
		return
	}

	utils.ResponseSuccess(w, "Guests retrieved", response)
}

// Acknowledge handles PUT /api/guest/acknowledge/{bookingId}
func (h *GuestHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	email, ok := utils.GetEmailFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "acknowledged must be provided as a boolean", validationErrors)
		return
	}

	response, err := h.service.Acknowledge(r.Context(), email, chi.URLParam(r, "bookingId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "acknowledge booking")
		return
	}

	utils.ResponseSuccess(w, "Acknowledgement updated", response)
}

// SetRegistrationPayment handles PUT /api/guest/update-payment-status/{bookingId}/{guestIndex}
func (h *GuestHandler) SetRegistrationPayment(w http.ResponseWriter, r *http.Request) {
	email, bookingID, index, ok := h.guestParams(w, r)
	if !ok {
		return
	}

	var req request.RegistrationPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "registrationPayment must be provided as a boolean", validationErrors)
		return
	}

	response, err := h.service.SetRegistrationPayment(r.Context(), email, bookingID, index, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update payment flag")
		return
	}

	utils.ResponseSuccess(w, "Payment flag updated", response)
}

// ==================== HELPER METHODS ====================

func (h *GuestHandler) guestParams(w http.ResponseWriter, r *http.Request) (email, bookingID string, index int, ok bool) {
	email, authed := utils.GetEmailFromContext(r.Context())
	if !authed {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return "", "", 0, false
	}

	bookingID = chi.URLParam(r, "bookingId")
	index, err := strconv.Atoi(chi.URLParam(r, "guestIndex"))
	if err != nil {
		utils.ResponseBadRequest(w, "Guest index must be a number", nil)
		return "", "", 0, false
	}

	return email, bookingID, index, true
}

// uploadedFile parses the multipart body and enforces the size cap and the
// content-type allow list before anything touches storage
func (h *GuestHandler) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	maxSize := h.config.Upload.MaxSizeBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1024)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		utils.ResponseBadRequest(w, fmt.Sprintf("File too large or malformed upload, limit is %d bytes", maxSize), nil)
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ResponseBadRequest(w, "Missing file field in upload", nil)
		return nil, nil, false
	}

	if header.Size > maxSize {
		file.Close()
		utils.ResponseBadRequest(w, fmt.Sprintf("File too large, limit is %d bytes", maxSize), nil)
		return nil, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		file.Close()
		utils.ResponseBadRequest(w, "Only JPEG, PNG and PDF files are accepted", nil)
		return nil, nil, false
	}

	return file, header, true
}
