package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFile stores the catalog as an indented JSON array in a single file.
type JSONFile struct {
	path string
}

// NewJSONFile creates a backend for the file at path. The file is not touched
// until the first Load or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Location() string {
	return f.path
}

// Load reads all rows. A missing file is an empty catalog.
func (f *JSONFile) Load() ([]Row, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var raw []*Row
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}

	// null elements carry no book
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}

// Save replaces the file contents with rows. The data is written to a temp
// file in the same directory and renamed over the target.
func (f *JSONFile) Save(rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".catalog_tmp_")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}
