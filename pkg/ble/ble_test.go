package ble

import (
	"bytes"
	"context"
	"testing"
	"time"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

func TestIsSupportedName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"GB01", true},
		{"GB02", true},
		{"GB03", true},
		{"GT01", true},
		{"gb01", true},
		{"GB04", false},
		{"", false},
		{"JBL Speaker", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSupportedName(tt.name); got != tt.want {
				t.Errorf("IsSupportedName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDeviceMatchesIdentifier(t *testing.T) {
	d := Device{Name: "GB02", Address: "AA:BB:CC:DD:EE:FF"}

	tests := []struct {
		id   string
		want bool
	}{
		{"", true},
		{"GB02", true},
		{"gb02", true},
		{"AA:BB:CC:DD:EE:FF", true},
		{"aa:bb:cc:dd:ee:ff", true},
		{"GB01", false},
		{"11:22:33:44:55:66", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := d.matchesIdentifier(tt.id); got != tt.want {
				t.Errorf("matchesIdentifier(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestDeviceString(t *testing.T) {
	named := Device{Name: "GT01", Address: "AA:BB:CC:DD:EE:FF"}
	if got := named.String(); got != "GT01 (AA:BB:CC:DD:EE:FF)" {
		t.Errorf("String() = %q", got)
	}
	anon := Device{Address: "AA:BB:CC:DD:EE:FF"}
	if got := anon.String(); got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("String() = %q", got)
	}
}

func TestFindEmptyIdentifierRequestsAutodiscovery(t *testing.T) {
	// The bare print command passes an empty identifier to mean "first
	// supported printer seen". That must reach the scan, not be rejected
	// up front as an invalid identifier.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewScanner(nil).Find(ctx, "", 50*time.Millisecond)
	if cperrors.Is(err, cperrors.ErrCodeInvalidDevice) {
		t.Fatalf("empty identifier rejected before scanning: %v", err)
	}
}

func TestFindRejectsMalformedIdentifier(t *testing.T) {
	// Validation still runs for named identifiers, before the adapter is
	// touched.
	_, err := NewScanner(nil).Find(context.Background(), "GB\x0002", time.Millisecond)
	if !cperrors.Is(err, cperrors.ErrCodeInvalidDevice) {
		t.Fatalf("error = %v, want INVALID_DEVICE", err)
	}
}

func TestSplitChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 45)

	chunks := splitChunks(data, 20)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if len(chunks[0]) != 20 || len(chunks[1]) != 20 || len(chunks[2]) != 5 {
		t.Errorf("chunk sizes = %d, %d, %d; want 20, 20, 5",
			len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	var joined []byte
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, data) {
		t.Error("chunks do not reassemble to the input")
	}
}

func TestSplitChunksEdgeCases(t *testing.T) {
	if got := splitChunks(nil, 20); len(got) != 0 {
		t.Errorf("nil input produced %d chunks", len(got))
	}
	if got := splitChunks([]byte{1, 2, 3}, 20); len(got) != 1 || len(got[0]) != 3 {
		t.Errorf("short input not passed through whole: %v", got)
	}
	// Non-positive size falls back to the default instead of looping.
	if got := splitChunks(bytes.Repeat([]byte{1}, 40), 0); len(got) != 2 {
		t.Errorf("zero size: chunks = %d, want 2", len(got))
	}
}
