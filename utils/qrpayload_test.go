package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQRPayload(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expected    string
		expectError bool
	}{
		{"valid payload", "ORDER:ZAM-2024-001", "ZAM-2024-001", false},
		{"payload with colon in number", "ORDER:A:B", "A:B", false},
		{"empty order number", "ORDER:", "", false},
		{"missing prefix", "ZAM-2024-001", "", true},
		{"lowercase prefix", "order:ZAM-2024-001", "", true},
		{"prefix not at start", "XORDER:ZAM-2024-001", "", true},
		{"empty payload", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderNumber, err := ParseQRPayload(tt.payload)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidQRFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, orderNumber)
		})
	}
}
