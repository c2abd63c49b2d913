package errors

import (
	"strings"
	"testing"
)

func TestValidateDeviceIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mac", "AA:BB:CC:DD:EE:FF", false},
		{"valid uuid", "6e400001-b5a3-f393-e0a9-e50e24dcca9e", false},
		{"valid name", "GB02", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"control char", "GB\x0102", true},
		{"newline", "GB02\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeviceIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDeviceIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFontPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid absolute", "/usr/share/fonts/DejaVuSans.ttf", false},
		{"valid relative", "fonts/DejaVuSans.ttf", false},

		{"empty", "", true},
		{"null byte", "fonts/DejaVu\x00Sans.ttf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
