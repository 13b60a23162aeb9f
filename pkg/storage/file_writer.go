package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

type fileWriter struct {
	path string
}

// NewFileWriter writes every image to the same path, replacing the previous one.
func NewFileWriter(path string) *fileWriter {
	return &fileWriter{path: path}
}

func (w *fileWriter) Path() string { return w.path }

// Write truncates the file and stores data in it.
func (w *fileWriter) Write(data []byte) (err error) {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", w.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("closing %s: %w", w.path, closeErr))
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", w.path, err)
	}

	return nil
}
