package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TextAndMarkdown(t *testing.T) {
	l := NewFileLoader()

	for _, name := range []string{"notes.txt", "guide.md", "guide.markdown"} {
		path := writeFile(t, name, "hello docs")

		doc, err := l.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, doc.Source)
		assert.Equal(t, "hello docs", doc.Text)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	l := NewFileLoader()

	_, err := l.Load(context.Background(), writeFile(t, "image.png", "binary"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document type")
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewFileLoader()

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestLoad_CancelledContext(t *testing.T) {
	l := NewFileLoader()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, writeFile(t, "notes.txt", "x"))
	assert.ErrorIs(t, err, context.Canceled)
}
