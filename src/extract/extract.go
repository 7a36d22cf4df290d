// Package extract pulls plain clinical text out of uploaded documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lu4p/cat"
)

var ErrUnsupportedFormat = errors.New("unsupported file format, expected .txt or .docx")

// zipMagic is the local file header every .docx package starts with.
var zipMagic = []byte("PK\x03\x04")

// ExtractText returns the text of a .txt or .docx upload. The format is
// chosen by file extension.
func ExtractText(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return plainText(data)
	case ".docx":
		return docxText(data)
	default:
		return "", ErrUnsupportedFormat
	}
}

func plainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}

func docxText(data []byte) (string, error) {
	// cat sniffs content, so a renamed text file would otherwise pass as a docx.
	if !bytes.HasPrefix(data, zipMagic) {
		return "", fmt.Errorf("invalid docx: not a zip archive")
	}

	text, err := cat.FromBytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract docx text: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("docx contains no document text")
	}
	return text, nil
}
