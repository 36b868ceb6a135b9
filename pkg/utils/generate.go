package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strings"
	"time"
)

// GenerateSecureToken returns a 64-char hex token for verification and
// password-reset links
func GenerateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateBookingRef derives a human-readable booking reference from the trip
// name and booking date. Format: <TRIP6><YYYYMMDD>-<5 random digits>.
// Collisions are possible and not retried; downstream systems depend on this
// exact format.
func GenerateBookingRef(tripName string, bookingDate time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(tripName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	prefix := b.String()
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	for len(prefix) < 6 {
		prefix += "X"
	}

	datePart := bookingDate.Format("20060102")
	randomPart := mrand.Intn(100000)

	return fmt.Sprintf("%s%s-%05d", prefix, datePart, randomPart)
}
