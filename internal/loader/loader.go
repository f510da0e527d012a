package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the raw text of one source file.
type Document struct {
	Source string
	Text   string
}

// Loader reads a source into plain text.
type Loader interface {
	Load(ctx context.Context, source string) (Document, error)
}

// FileLoader reads .txt and .md files directly and extracts plain text
// from .pdf files.
type FileLoader struct{}

func NewFileLoader() *FileLoader { return &FileLoader{} }

func (l *FileLoader) Load(ctx context.Context, source string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	ext := strings.ToLower(filepath.Ext(source))
	switch ext {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(source)
		if err != nil {
			return Document{}, fmt.Errorf("reading %s: %w", source, err)
		}
		return Document{Source: source, Text: string(data)}, nil
	case ".pdf":
		text, err := pdfText(source)
		if err != nil {
			return Document{}, fmt.Errorf("extracting %s: %w", source, err)
		}
		return Document{Source: source, Text: text}, nil
	}
	return Document{}, fmt.Errorf("unsupported document type %q", ext)
}

func pdfText(source string) (string, error) {
	f, rdr, err := pdf.Open(source)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
