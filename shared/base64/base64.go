package base64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

// GetContentType returns the media type of a "data:<type>;base64,<payload>" uri, or "" if it is not one.
func GetContentType(file string) string {
	if !strings.HasPrefix(file, dataPrefix) {
		return ""
	}

	end := strings.Index(file, base64Marker)
	if end <= len(dataPrefix) {
		return ""
	}

	return file[len(dataPrefix):end]
}

// Decode splits a data uri into its payload bytes and media type.
func Decode(file string) ([]byte, string, error) {
	contentType := GetContentType(file)
	if contentType == "" {
		return nil, "", ErrInvalidDataURI
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return data, contentType, nil
}
