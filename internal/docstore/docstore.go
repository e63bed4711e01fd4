// internal/docstore/docstore.go
// Package docstore loads plain-text medical documents from disk into the
// shape the retrieval and summarization layers consume.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/medivise/medivise/internal/retrieval"
)

// allowedExtensions lists the file types treated as document text. PDF and
// image extraction is out of scope; convert those to text first.
var allowedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
}

// LoadFile reads a single document. The document ID is the base filename
// without its extension.
func LoadFile(path string) (retrieval.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return retrieval.Document{}, fmt.Errorf("docstore: read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return retrieval.Document{
		ID:   strings.TrimSuffix(name, filepath.Ext(name)),
		Name: name,
		Text: string(data),
	}, nil
}

// LoadDir reads every allowed-extension file directly under dir, sorted by
// filename. Subdirectories are not walked.
func LoadDir(dir string) ([]retrieval.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("docstore: read dir %s: %w", dir, err)
	}

	var docs []retrieval.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !allowedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// LoadPaths loads each path, expanding directories one level deep.
func LoadPaths(paths []string) ([]retrieval.Document, error) {
	var docs []retrieval.Document
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("docstore: stat %s: %w", p, err)
		}
		if info.IsDir() {
			fromDir, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			docs = append(docs, fromDir...)
			continue
		}
		doc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
