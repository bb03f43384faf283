// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"

	"github.com/tomtom215/faqrec/internal/recommend"
)

// Format is the encoding of a corpus file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported corpus format")

	// ErrInvalidCorpus is returned when a decoded corpus fails validation.
	ErrInvalidCorpus = errors.New("invalid corpus")
)

// Source supplies the FAQ categories the engine indexes.
type Source interface {
	Load(ctx context.Context) ([]recommend.Category, error)
}

// document is the on-disk shape. JSON files may also hold a bare array.
type document struct {
	Categories []recommend.Category `json:"categories"`
}

// FileSource loads categories from a JSON or YAML file.
type FileSource struct {
	Path string

	// Format overrides detection by file extension.
	Format Format
}

// NewFileSource creates a FileSource. An empty format is inferred from the
// file extension.
func NewFileSource(path string, format Format) *FileSource {
	return &FileSource{Path: path, Format: format}
}

// Load reads, decodes and validates the corpus file.
func (s *FileSource) Load(ctx context.Context) ([]recommend.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := s.format()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", s.Path, err)
	}

	var categories []recommend.Category
	switch format {
	case FormatJSON:
		categories, err = DecodeJSON(data)
	case FormatYAML:
		categories, err = DecodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", s.Path, err)
	}

	if err := Validate(categories); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", s.Path, err)
	}
	return categories, nil
}

func (s *FileSource) format() (Format, error) {
	if s.Format != "" {
		switch f := Format(strings.ToLower(string(s.Format))); f {
		case FormatJSON, FormatYAML:
			return f, nil
		case "yml":
			return FormatYAML, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.Format)
		}
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Path)
	}
}

// DecodeJSON decodes either {"categories": [...]} or a bare category array.
func DecodeJSON(data []byte) ([]recommend.Category, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var categories []recommend.Category
		if err := json.Unmarshal(trimmed, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// DecodeYAML decodes a YAML document with a top-level categories key. The
// YAML tree is re-encoded as JSON so the struct tags and enum text decoding
// apply unchanged.
func DecodeYAML(data []byte) ([]recommend.Category, error) {
	tree, err := yaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encode yaml: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// Validate checks identifiers: every category and question needs an ID and
// question IDs are unique across the corpus.
func Validate(categories []recommend.Category) error {
	seen := make(map[string]string)
	for i, c := range categories {
		if c.ID == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCorpus, i)
		}
		for j, q := range c.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: question %d in category %s has no id", ErrInvalidCorpus, j, c.ID)
			}
			if prev, dup := seen[q.ID]; dup {
				return fmt.Errorf("%w: question %s appears in %s and %s", ErrInvalidCorpus, q.ID, prev, c.ID)
			}
			seen[q.ID] = c.ID
		}
	}
	return nil
}

// StaticSource serves a fixed corpus.
type StaticSource struct {
	Categories []recommend.Category
}

// Load returns a copy of the category slice.
func (s StaticSource) Load(ctx context.Context) ([]recommend.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]recommend.Category(nil), s.Categories...), nil
}
