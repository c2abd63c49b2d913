package errors

import (
	"strings"
	"unicode"
)

// ValidateDeviceIdentifier validates a device address or advertisement name
// supplied on the command line or in a print request.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers (autodiscovery is requested with an absent flag,
//     not an empty one)
//   - No control characters
//   - Maximum length of 64 characters
//
// Identifiers may be MAC addresses (Linux), peripheral UUIDs (macOS), or
// advertised names such as "GB02"; platform-specific shape checks are left
// to the transport layer.
func ValidateDeviceIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDevice, "device identifier cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidDevice, "device identifier too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDevice, "device identifier contains control characters")
		}
	}

	return nil
}

// ValidateFontPath validates a font file path for safety before it is handed
// to the font loader. It rejects null bytes and empty paths but deliberately
// allows absolute and relative paths; existence is checked by the loader.
func ValidateFontPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "font path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "font path contains null byte")
	}
	return nil
}
