package extract

import (
	"fmt"
	"os"
)

// FromFile reads a document and extracts its evidence text using the
// adapter matching the file extension
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read evidence file: %w", err)
	}
	return NewRegistry().Extract(data, path, "")
}
