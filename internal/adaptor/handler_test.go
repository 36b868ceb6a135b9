package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"safari-booking/internal/usecase"
	"safari-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("%w: bad input", usecase.ErrValidation), http.StatusBadRequest},
		{"invalid state", fmt.Errorf("%w: not paid", usecase.ErrInvalidState), http.StatusBadRequest},
		{"payment incomplete", fmt.Errorf("%w: status DECLINED", usecase.ErrPaymentIncomplete), http.StatusBadRequest},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusBadRequest},
		{"bad challenge", usecase.ErrInvalidChallenge, http.StatusBadRequest},
		{"bad code", usecase.ErrInvalidCode, http.StatusBadRequest},
		{"bad password", usecase.ErrInvalidPassword, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: booking", usecase.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: email taken", usecase.ErrConflict), http.StatusConflict},
		{"expired token", fmt.Errorf("%w: link expired", usecase.ErrTokenExpired), http.StatusGone},
		{"unknown", fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tc.err, "test op")

			assert.Equal(t, tc.code, rec.Code)

			var body utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandleServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), fmt.Errorf("dial tcp 10.0.0.5: connection refused"), "test op")

	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestHandleServiceErrorVerificationRequired(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(),
		&usecase.VerificationRequiredError{Email: "amina@example.com"}, "login")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Email                string `json:"email"`
			RequiresVerification bool   `json:"requiresVerification"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Status)
	assert.True(t, body.Data.RequiresVerification)
	assert.Equal(t, "amina@example.com", body.Data.Email)
}
