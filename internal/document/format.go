// Package document provides paged access to book files and the
// page-window text extraction used by the reading session.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is an open book exposing per-page text extraction.
// Page indices are zero-based. Extraction of a single page may fail
// without affecting the others.
type Document interface {
	PageCount() int
	PageText(i int) (string, error)
	Close() error
}

// Format defines a file format backend that can open documents.
type Format interface {
	Name() string
	Extensions() []string
	Open(path string) (Document, error)
}

var registry []Format

// Register adds a format backend to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// OpenFile opens a book using the format registered for its extension.
func OpenFile(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Open(path)
			}
		}
	}
	return nil, fmt.Errorf("unsupported file type %q (supported: %s)", ext, strings.Join(SupportedFormats(), ", "))
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
