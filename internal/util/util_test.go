package util

import (
	"testing"
	"time"
)

func TestChecksumBytes(t *testing.T) {
	t.Parallel()

	// SHA256 of the empty input is a fixed, well-known value.
	const emptySum = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	if got := ChecksumBytes(nil); got != emptySum {
		t.Fatalf("ChecksumBytes(nil) = %s, want %s", got, emptySum)
	}

	a := ChecksumBytes([]byte("ridelink"))
	b := ChecksumBytes([]byte("ridelink"))
	if a != b {
		t.Fatalf("checksum is not deterministic: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("checksum length = %d, want 64", len(a))
	}

	if ChecksumBytes([]byte("ridelink")) == ChecksumBytes([]byte("ridelink2")) {
		t.Fatal("different inputs produced the same checksum")
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero bytes", bytes: 0, expected: "0 B"},
		{name: "bytes under kilobyte", bytes: 512, expected: "512 B"},
		{name: "exact kilobyte", bytes: 1024, expected: "1.0 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5 KB"},
		{name: "megabyte", bytes: 1024 * 1024, expected: "1.0 MB"},
		{name: "gigabyte", bytes: 5 * 1024 * 1024 * 1024, expected: "5.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatBytes(tt.bytes); got != tt.expected {
				t.Fatalf("FormatBytes(%d) = %s, want %s", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m0s"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%v) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}
