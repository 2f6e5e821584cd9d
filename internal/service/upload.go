package service

import (
	"bytes"
	"image"
	"path/filepath"
	"strings"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// allowedExtensions is the set of file extensions accepted for prediction.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"webp": {},
}

// Upload is an image file as received from the client.
type Upload struct {
	Filename string
	Data     []byte
}

// AllowedExtension reports whether filename ends in an accepted image extension.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := allowedExtensions[ext]
	return ok
}

// validateUpload checks the declared extension, emptiness and the actual
// encoding, and returns the media type of the decoded header.
func validateUpload(u Upload) (string, error) {
	if !AllowedExtension(u.Filename) {
		return "", invalid("Invalid file type. Please upload PNG, JPG, JPEG, GIF, BMP, or WEBP files only.")
	}
	if len(u.Data) == 0 {
		return "", invalid("Empty image file")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return "", invalid("File is not a readable image")
	}
	return "image/" + format, nil
}
