package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads raw template bytes into a Document.
type Loader interface {
	Load(r io.Reader, filename string) (Document, error)
}

// SupportedExtensions lists template extensions in selection preference order.
var SupportedExtensions = []string{".docx", ".html", ".md", ".txt"}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextLoader{}, nil
	case ".md", ".markdown":
		return &TextLoader{Markdown: true}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := ForFile(filename)
	return err == nil
}

// Open loads the template at path.
func Open(path string) (Document, error) {
	loader, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	doc, err := loader.Load(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
