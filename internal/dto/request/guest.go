package request

// UpdateGuestRequest is a partial update: nil means "leave unchanged".
// Present-null is not supported; absent and null both decode to nil here and
// both are treated as absent, matching the documented update contract.
type UpdateGuestRequest struct {
	Name    *string `json:"name,omitempty"`
	Age     *int    `json:"age,omitempty" validate:"omitempty,gte=0"`
	Gender  *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone   *string `json:"phone,omitempty"`
	Country *string `json:"country,omitempty"`
	State   *string `json:"state,omitempty"`
	Address *string `json:"address,omitempty"`

	PassportNumber    *string `json:"passportNumber,omitempty"`
	PassportCountry   *string `json:"passportCountry,omitempty"`
	PassportIssuedOn  *string `json:"passportIssuedOn,omitempty"`
	PassportExpiresOn *string `json:"passportExpiresOn,omitempty"`

	EmergencyContactName   *string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber *string `json:"emergencyContactNumber,omitempty"`
}

type AcknowledgeRequest struct {
	Acknowledged *bool `json:"acknowledged" validate:"required"`
}

type RegistrationPaymentRequest struct {
	RegistrationPayment *bool `json:"registrationPayment" validate:"required"`
}
