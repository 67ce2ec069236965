package base64_test

import (
	"errors"
	"testing"

	"vrent/shared/base64"
)

const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"png photo", "data:image/png;base64," + pixelPNG, "image/png"},
		{"webp photo", "data:image/webp;base64,UklGRg==", "image/webp"},
		{"empty string", "", ""},
		{"no data prefix", "image/png;base64," + pixelPNG, ""},
		{"no base64 marker", "data:image/png," + pixelPNG, ""},
		{"only data prefix", "data:", ""},
		{"empty media type", "data:;base64,AAAA", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base64.GetContentType(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	data, contentType, err := base64.Decode("data:text/plain;base64,SGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if contentType != "text/plain" || string(data) != "Hello" {
		t.Errorf("unexpected decode result %q %q", contentType, data)
	}

	_, _, err = base64.Decode("data:image/png;base64,!!!")
	if !errors.Is(err, base64.ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}

	_, _, err = base64.Decode("plain text")
	if !errors.Is(err, base64.ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}
}
