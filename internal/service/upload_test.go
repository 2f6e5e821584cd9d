package service

import (
	"errors"
	"image/color"
	"testing"
)

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"meal.png", true},
		{"meal.JPG", true},
		{"meal.jpeg", true},
		{"meal.gif", true},
		{"meal.bmp", true},
		{"meal.webp", true},
		{"archive.tar.png", true},
		{"meal.tiff", false},
		{"meal.exe", false},
		{"png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := AllowedExtension(tt.filename); got != tt.want {
				t.Errorf("AllowedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	png := createTestPNG(4, 4, color.White)

	mediaType, err := validateUpload(Upload{Filename: "a.png", Data: png})
	if err != nil {
		t.Fatalf("expected valid upload, got %v", err)
	}
	if mediaType != "image/png" {
		t.Errorf("expected image/png, got %s", mediaType)
	}

	// The decoded format wins over the declared extension.
	mediaType, err = validateUpload(Upload{Filename: "a.jpg", Data: png})
	if err != nil {
		t.Fatalf("expected valid upload, got %v", err)
	}
	if mediaType != "image/png" {
		t.Errorf("expected image/png from content sniffing, got %s", mediaType)
	}
}

func TestValidateUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		message string
	}{
		{"bad extension", Upload{Filename: "a.txt", Data: []byte("x")}, "Invalid file type. Please upload PNG, JPG, JPEG, GIF, BMP, or WEBP files only."},
		{"empty", Upload{Filename: "a.png"}, "Empty image file"},
		{"garbage", Upload{Filename: "a.png", Data: []byte("hello")}, "File is not a readable image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateUpload(tt.upload)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, verr.Message)
			}
		})
	}
}
