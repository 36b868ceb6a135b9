package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken()
	require.NoError(t, err)
	second, err := GenerateSecureToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), first)
	assert.NotEqual(t, first, second)
}

func TestGenerateBookingRef(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		tripName string
		prefix   string
	}{
		{"Serengeti Sunrise", "SERENG"},
		{"Kilimanjaro Trek 2026", "KILIMA"},
		// Short names pad with X, punctuation is stripped
		{"Gobi", "GOBIXX"},
		{"a-b!", "ABXXXX"},
		{"", "XXXXXX"},
	}

	pattern := regexp.MustCompile(`^[A-Z0-9X]{6}20260901-\d{5}$`)
	for _, tc := range cases {
		ref := GenerateBookingRef(tc.tripName, date)
		assert.Regexp(t, pattern, ref, "trip %q", tc.tripName)
		assert.Equal(t, tc.prefix, ref[:6], "trip %q", tc.tripName)
	}
}
