// Package textextract decodes uploaded documents into plain text.
package textextract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type ExtractedText struct {
	Content  string
	MimeType string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extract decodes a document of the given type. Only the plain-text
// formats the player accepts are supported; anything else is rejected
// before any network call happens.
func Extract(data []byte, fileType string) (*ExtractedText, error) {
	var mimeType string
	switch strings.ToLower(fileType) {
	case ".txt", "txt", "text/plain":
		mimeType = "text/plain"
	case ".md", "md", "text/markdown":
		mimeType = "text/markdown"
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("document is not valid UTF-8 text")
	}

	return &ExtractedText{
		Content:  string(data),
		MimeType: mimeType,
	}, nil
}

// ExtractFile reads and decodes the document at path, deriving the type
// from the file extension.
func ExtractFile(path string) (*ExtractedText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Extract(data, filepath.Ext(path))
}

func SupportedTypes() []string {
	return []string{".txt", ".md"}
}
