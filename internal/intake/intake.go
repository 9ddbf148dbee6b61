// Package intake finds input documents and turns them into RawDocuments.
package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revipro-dev/revipro/internal/model"
)

// Loader converts one file into a RawDocument.
type Loader interface {
	Load(ctx context.Context, path string) (model.RawDocument, error)
	Format() string
}

// Registry maps a format name to its loader.
type Registry struct {
	loaders map[string]Loader
}

// FileInfo describes a document file found by Scan.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on duplicate format.
func (r *Registry) Register(l Loader) {
	key := strings.ToLower(l.Format())
	if _, ok := r.loaders[key]; ok {
		panic("duplicate loader format: " + key)
	}
	r.loaders[key] = l
}

// Get returns the loader for format, or nil.
func (r *Registry) Get(format string) Loader {
	return r.loaders[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the PDF and JSON sidecar loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PDFLoader{})
	r.Register(&JSONLoader{})
	return r
}

// FormatOf derives the format name from a file extension.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// importDir is the subdirectory scanned when no paths are given.
const importDir = "import"

// processedDir receives documents after a successful analysis.
const processedDir = "import/processed"

// ImportDir returns <root>/import.
func ImportDir(root string) string {
	return filepath.Join(root, importDir)
}

// Scan returns the loadable files in dir, sorted by name.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := FormatOf(e.Name())
		if r.Get(format) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: format,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Collect expands paths (files or directories) into documents. Files with
// an unsupported extension are rejected; directories are scanned.
func (r *Registry) Collect(paths []string) ([]*Document, error) {
	var docs []*Document
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			files, err := r.Scan(p)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				docs = append(docs, r.document(f.Path, f.Format))
			}
			continue
		}
		format := FormatOf(p)
		if r.Get(format) == nil {
			return nil, fmt.Errorf("unsupported file %s", p)
		}
		docs = append(docs, r.document(p, format))
	}
	return docs, nil
}

func (r *Registry) document(path, format string) *Document {
	return &Document{Path: path, loader: r.Get(format)}
}

// Document is one input file bound to its loader.
type Document struct {
	Path   string
	loader Loader
}

// Name returns the base filename used for classification.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Load reads the document through its loader.
func (d *Document) Load(ctx context.Context) (model.RawDocument, error) {
	doc, err := d.loader.Load(ctx, d.Path)
	if err != nil {
		return model.RawDocument{}, fmt.Errorf("loading %s: %w", d.Name(), err)
	}
	return doc, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
