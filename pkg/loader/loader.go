package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frodel/windowrag/pkg/chunker"
	"github.com/frodel/windowrag/pkg/windowrag"
)

// LoadDocuments reads all supported documents from the filesystem and
// returns them as plain text keyed by path relative to root. Markdown and
// plain text are read directly; PDFs and CSVs go through their extractors.
// Unsupported extensions are skipped.
func LoadDocuments(fsys fs.FS, root string) (map[string]string, error) {
	docs := make(map[string]string)

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))

		var text string
		switch ext {
		case ".md", ".txt":
			content, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			text = string(content)
		case ".pdf":
			content, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			text, err = ExtractPDF(content)
			if err != nil {
				return fmt.Errorf("extracting %s: %w", path, err)
			}
		case ".csv":
			content, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			text, err = RenderCSV(content)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}
		default:
			return nil
		}

		// Store with path relative to root
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}

		docs[relPath] = text
		return nil
	})

	return docs, err
}

// LoadAndSplitAll loads all documents and splits each into overlapping
// windows with per-document sequential indices. Documents are processed in
// sorted path order so the output is deterministic.
func LoadAndSplitAll(fsys fs.FS, root string, cfg chunker.Config) ([]windowrag.Chunk, error) {
	docs, err := LoadDocuments(fsys, root)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var allChunks []windowrag.Chunk
	for _, path := range paths {
		chunks, err := chunker.Split(docs[path], cfg)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", path, err)
		}
		for _, c := range chunks {
			allChunks = append(allChunks, windowrag.Chunk{
				Path:  path,
				Index: c.Index,
				Text:  c.Text,
			})
		}
	}

	return allChunks, nil
}
