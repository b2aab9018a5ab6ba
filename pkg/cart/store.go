package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStore keeps cart contents in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	items []Item
	Err   error
}

// Load implements Persistence.
func (s *MemoryStore) Load(context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Save implements Persistence.
func (s *MemoryStore) Save(_ context.Context, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.items = make([]Item, len(items))
	copy(s.items, items)
	return nil
}

// FileStore keeps cart contents as a JSON document on local disk.
type FileStore struct {
	Path string
}

type document struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

const documentVersion = 1

// Load implements Persistence. A missing file is an empty cart.
func (s FileStore) Load(context.Context) ([]Item, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("decode %s: unsupported version %d", s.Path, doc.Version)
	}
	return doc.Items, nil
}

// Save implements Persistence. The file is replaced atomically.
func (s FileStore) Save(_ context.Context, items []Item) error {
	data, err := json.Marshal(document{Version: documentVersion, Items: items})
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}
