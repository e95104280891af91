package content

import (
	"encoding/base64"
	"fmt"
	"os"
)

// EncodeImage reads the file at path and returns its base64 encoding.
//
// An empty path returns an empty string, which leaves the image
// placeholder blank.
func EncodeImage(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// LoadTemplate reads a template file. An empty path returns
// DefaultTemplate.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}
