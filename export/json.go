package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	return nil
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode history: %w", err)
	}

	return doc, nil
}

// WriteFile writes doc as JSON to path, replacing any existing file.
//
// Parameters:
//   - path: Destination file
//   - doc: History to write
//
// Returns:
//   - error: Create, encode or close error
func WriteFile(path string, doc Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return WriteJSON(f, doc)
}
