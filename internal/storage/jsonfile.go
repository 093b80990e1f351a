// Package storage provides to-do list persistence implementations.
package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.ItemStore = (*JSONFileStore)(nil)

//go:embed items.schema.json
var itemsSchema []byte

const schemaURL = "items.schema.json"

// JSONFileStore keeps the whole list in one pretty-printed JSON file.
// Every Save rewrites the file; there is no locking across processes.
type JSONFileStore struct {
	path   string
	schema *jsonschema.Schema
	log    *logger.Logger
}

// NewJSONFileStore creates a store backed by the file at path.
func NewJSONFileStore(path string, log *logger.Logger) (*JSONFileStore, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(itemsSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONFileStore{path: path, schema: schema, log: log}, nil
}

// Path returns the data file location.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the list. A missing file yields an empty list; a file that is
// not valid JSON or does not match the item schema is an error.
func (s *JSONFileStore) Load(ctx context.Context) ([]domain.Item, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("store: %s does not exist, starting empty", s.path)
			return []domain.Item{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.path, err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if items == nil {
		items = []domain.Item{}
	}

	s.log.Debug("store: loaded %d items from %s", len(items), s.path)
	return items, nil
}

// Save replaces the file contents with items. The data is written to a
// temporary file in the same directory and renamed over the old one.
func (s *JSONFileStore) Save(ctx context.Context, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	s.log.Debug("store: saved %d items to %s", len(items), s.path)
	return nil
}

// Clear deletes the data file.
func (s *JSONFileStore) Clear(ctx context.Context) (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", s.path, err)
	}
	s.log.Debug("store: removed %s", s.path)
	return true, nil
}
