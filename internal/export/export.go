package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the fixed name the CSV export is saved under, matching
// the download name the web client used.
const FileName = "applications.csv"

// WriteCSV saves the server-generated CSV bytes into dir and returns
// the written path. The directory is created if needed. The client
// never generates CSV content itself.
func WriteCSV(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export to %s: %w", path, err)
	}

	return path, nil
}
