package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/revipro-dev/revipro/internal/model"
)

// JSONLoader reads documents already extracted by an external text/table
// extractor: {"filename": "...", "lines": [...], "tables": [[[cell, null]]]}.
type JSONLoader struct{}

type sidecar struct {
	Filename string        `json:"filename"`
	Lines    []string      `json:"lines"`
	Tables   [][][]*string `json:"tables"`
}

// Format returns the loader name.
func (l *JSONLoader) Format() string { return "json" }

// Load decodes the sidecar at path. Without a filename field the sidecar's
// own name minus ".json" is used ("JA_2024.pdf.json" -> "JA_2024.pdf").
func (l *JSONLoader) Load(ctx context.Context, path string) (model.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return model.RawDocument{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawDocument{}, fmt.Errorf("reading sidecar: %w", err)
	}

	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return model.RawDocument{}, fmt.Errorf("decoding sidecar: %w", err)
	}

	doc := model.RawDocument{Filename: sc.Filename}
	if doc.Filename == "" {
		doc.Filename = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, line := range sc.Lines {
		doc.Lines = append(doc.Lines, norm.NFC.String(line))
	}
	for _, t := range sc.Tables {
		doc.Tables = append(doc.Tables, model.Table(t))
	}
	return doc, nil
}
