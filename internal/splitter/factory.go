package splitter

import (
	"path/filepath"
	"strings"
)

// ForSource returns the splitter suited to a file, by extension.
// Markdown gets the heading-aware splitter, everything else the plain
// window splitter.
func ForSource(path string, cfg Config) Splitter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownSplitter(cfg)
	default:
		return NewTextSplitter(cfg)
	}
}
