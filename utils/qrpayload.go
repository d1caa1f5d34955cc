package utils

import (
	"errors"
	"strings"
)

// qrOrderPrefix is the literal prefix every order QR code carries
const qrOrderPrefix = "ORDER:"

// ErrInvalidQRFormat is returned for payloads that do not carry the order prefix
var ErrInvalidQRFormat = errors.New("invalid QR code format")

// ParseQRPayload extracts the order number from a scanned QR payload of the
// form "ORDER:<order_number>". Any other payload is rejected.
func ParseQRPayload(payload string) (string, error) {
	if !strings.HasPrefix(payload, qrOrderPrefix) {
		return "", ErrInvalidQRFormat
	}
	return strings.TrimPrefix(payload, qrOrderPrefix), nil
}
